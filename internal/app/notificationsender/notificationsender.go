// Package notificationsender contiene el consumidor de trabajos de
// notificación: lee las colas de RabbitMQ y entrega cada aviso por web
// push a los dispositivos registrados.
package notificationsender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/config"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/push"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/rabbitmq"
	notificationservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/notification"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// App representa la aplicación consumidora de notificaciones.
type App struct {
	conn                *amqp.Connection
	ch                  *amqp.Channel
	notificationService *notificationservice.Service
	db                  *repository.Storage
	logger              *slog.Logger
}

// New crea una nueva instancia del consumidor de notificaciones.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	sender := push.NewSender(cfg.Push.VAPIDSubject, cfg.Push.VAPIDPublicKey, cfg.Push.SendTimeout)
	notificationService := notificationservice.NewService(db, sender, logger)

	return &App{
		conn:                conn,
		ch:                  ch,
		notificationService: notificationService,
		db:                  db,
		logger:              logger,
	}, nil
}

// Run arranca un consumidor por cola y espera la señal de parada.
func (a *App) Run(ctx context.Context) error {
	handler := func(body []byte) error {
		return a.notificationService.HandleJob(ctx, body)
	}

	for _, queue := range []string{
		rabbitmq.TeamMessageQueue,
		rabbitmq.RenewalQueue,
		rabbitmq.DailyLogQueue,
	} {
		if err := rabbitmq.ConsumeMessages(ctx, a.ch, queue, handler); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", queue), slog.Any("err", err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}

	return nil
}

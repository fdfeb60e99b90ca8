// Package reminderscheduler contiene el planificador de recordatorios:
// explora periódicamente la base y encola avisos de renovación y de
// bitácoras pendientes.
package reminderscheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/config"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/rabbitmq"
	reminderservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/reminder"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// App representa la aplicación del planificador.
type App struct {
	reminderService *reminderservice.Service
	conn            *amqp.Connection
	ch              *amqp.Channel
	db              *repository.Storage
	logger          *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New crea una nueva instancia de la aplicación del planificador.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := rabbitmq.NewPublisher(ch)
	reminderService := reminderservice.NewService(db, publisher, logger)

	return &App{
		reminderService: reminderService,
		conn:            conn,
		ch:              ch,
		db:              db,
		logger:          logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run arranca los barridos periódicos y espera la señal de parada.
func (a *App) Run(ctx context.Context) error {
	go a.runRenewalScan(ctx)
	go a.runMissingLogScan(ctx)

	<-ctx.Done()

	a.logger.Info("shutting down reminder scheduler")

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

func (a *App) runRenewalScan(ctx context.Context) {
	a.scanRenewals(ctx)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.scanRenewals(ctx)
		}
	}
}

func (a *App) scanRenewals(ctx context.Context) {
	a.logger.Info("starting renewal reminder scan")
	count, err := a.reminderService.ScanRenewals(ctx, time.Now().UTC())
	if err != nil {
		a.logger.Error("renewal scan failed", sl.Err(err))
		return
	}
	a.logger.Info("renewal scan finished", "enqueued", count)
}

func (a *App) runMissingLogScan(ctx context.Context) {
	a.scanMissingLogs(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.scanMissingLogs(ctx)
		}
	}
}

func (a *App) scanMissingLogs(ctx context.Context) {
	a.logger.Info("starting missing daily log scan")
	count, err := a.reminderService.ScanMissingLogs(ctx)
	if err != nil {
		a.logger.Error("missing log scan failed", sl.Err(err))
		return
	}
	a.logger.Info("missing log scan finished", "enqueued", count)
}

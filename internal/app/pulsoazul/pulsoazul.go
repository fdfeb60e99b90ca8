// Package pulsoazul arma el binario principal: conecta el
// almacenamiento, el cache, el broker y los servicios, y levanta el
// servidor HTTP del API.
package pulsoazul

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/assistant"
	billingclient "github.com/juanluis-911/PulsoAzul-sub000/internal/billing"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/cache"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/config"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/jwt"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/migrations"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/push"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/rabbitmq"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
	authservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/auth"
	billingservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/billing"
	childservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/child"
	entitlementservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/entitlement"
	goalservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/goal"
	logbookservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/logbook"
	messageservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/message"
	notificationservice "github.com/juanluis-911/PulsoAzul-sub000/internal/services/notification"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// App agrupa los recursos del binario principal.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	assistant *assistant.Service
	conn      *amqp.Connection
	ch        *amqp.Channel
}

// New conecta las dependencias y construye el servidor HTTP.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(ch)

	assistantService, err := assistant.New(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to init assistant: %w", err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	guard := access.NewGuard(db)
	providerClient := billingclient.NewClient(cfg.Billing.AccountID, cfg.Billing.SecretKey, cfg.Billing.APIURL)
	pushSender := push.NewSender(cfg.Push.VAPIDSubject, cfg.Push.VAPIDPublicKey, cfg.Push.SendTimeout)

	services := &Services{
		Auth:         authservice.NewAuthService(db, jwtMaker),
		Entitlement:  entitlementservice.NewService(db, cacheRedis, logger),
		Child:        childservice.NewService(db, db, guard, logger),
		Logbook:      logbookservice.NewService(db, guard, logger),
		Goal:         goalservice.NewService(db, db, guard, logger),
		Message:      messageservice.NewService(db, publisher, guard, logger),
		Notification: notificationservice.NewService(db, pushSender, logger),
		Assistant:    assistantService,
	}
	services.Billing = billingservice.NewService(db, providerClient, services.Entitlement, cfg.Billing, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		assistant: assistantService,
		conn:      conn,
		ch:        ch,
	}, nil
}

// Run arranca el servidor y espera la señal de parada para apagarlo
// ordenadamente.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.assistant.Close()
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		_ = a.db.DB.Close()
		return err
	}
}

// Package billing contiene la lógica de negocio de facturación: la
// creación de sesiones de checkout y portal, y la aplicación de los
// eventos de webhook al registro de suscriptor.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/billing"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/config"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

// ErrNoCustomer se devuelve al pedir el portal de facturación sin haber
// completado nunca un checkout.
var ErrNoCustomer = errors.New("account has no billing customer")

// SubscriberRepository describe el acceso al almacén de suscriptores.
type SubscriberRepository interface {
	GetSubscriber(ctx context.Context, accountUID string) (*models.Subscriber, error)
	UpsertSubscriber(ctx context.Context, sub models.Subscriber) error
}

// ProviderClient describe el cliente del procesador de pagos.
type ProviderClient interface {
	CreateCheckoutSession(ctx context.Context, req billing.CreateCheckoutSessionRequest) (*billing.CheckoutSessionResponse, error)
	CreatePortalSession(ctx context.Context, req billing.CreatePortalSessionRequest) (*billing.PortalSessionResponse, error)
}

// CacheInvalidator invalida el registro de suscriptor cacheado tras
// cada escritura por webhook.
type CacheInvalidator interface {
	InvalidateSubscriber(ctx context.Context, accountUID string)
}

// Service implementa las operaciones de facturación.
type Service struct {
	repo     SubscriberRepository
	provider ProviderClient
	cache    CacheInvalidator
	cfg      config.Billing
	log      *slog.Logger
}

// NewService crea el servicio de facturación.
func NewService(repo SubscriberRepository, provider ProviderClient, cache CacheInvalidator, cfg config.Billing, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// CreateCheckout crea una sesión de checkout para el plan y devuelve la
// URL de redirección. El account_uid viaja en los metadatos para que el
// webhook posterior pueda correlacionar el evento con la cuenta.
func (s *Service) CreateCheckout(ctx context.Context, accountUID, planID string) (string, error) {
	req := billing.CreateCheckoutSessionRequest{
		PlanID:     planID,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
		Metadata:   map[string]string{"account_uid": accountUID},
	}

	sub, err := s.repo.GetSubscriber(ctx, accountUID)
	if err != nil && !errors.Is(err, repository.ErrSubscriberNotFound) {
		return "", err
	}
	if sub != nil {
		req.CustomerID = sub.CustomerID
	}

	resp, err := s.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return resp.URL, nil
}

// CreatePortal crea una sesión del portal de facturación del cliente.
func (s *Service) CreatePortal(ctx context.Context, accountUID string) (string, error) {
	sub, err := s.repo.GetSubscriber(ctx, accountUID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return "", ErrNoCustomer
		}
		return "", err
	}
	if sub.CustomerID == "" {
		return "", ErrNoCustomer
	}

	resp, err := s.provider.CreatePortalSession(ctx, billing.CreatePortalSessionRequest{
		CustomerID: sub.CustomerID,
		ReturnURL:  s.cfg.ReturnURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return resp.URL, nil
}

// ApplyEvent aplica un evento de webhook al registro de suscriptor de
// la cuenta. Cada tipo de evento es un conjunto fijo de escrituras de
// campos sobre el upsert, por lo que la reentrega es idempotente.
func (s *Service) ApplyEvent(ctx context.Context, event *billing.Event) error {
	const op = "billing.ApplyEvent"

	accountUID := event.AccountUID()
	current, err := s.repo.GetSubscriber(ctx, accountUID)
	if err != nil && !errors.Is(err, repository.ErrSubscriberNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	sub := models.Subscriber{AccountUID: accountUID}
	if current != nil {
		sub = *current
	}

	switch event.Type {
	case billing.EventCheckoutCompleted:
		data := event.Checkout
		sub.CustomerID = data.CustomerID
		sub.PlanID = data.PlanID
		sub.Status = models.SubStatusActive
		if data.Trial {
			sub.Status = models.SubStatusTrialing
		}
		sub.CurrentPeriodEnd = unixTime(data.CurrentPeriodEnd)
		sub.CancelAtPeriodEnd = false
	case billing.EventInvoicePaymentSucceeded:
		data := event.Invoice
		if data.CustomerID != "" {
			sub.CustomerID = data.CustomerID
		}
		sub.Status = models.SubStatusActive
		sub.CurrentPeriodEnd = unixTime(data.CurrentPeriodEnd)
	case billing.EventInvoicePaymentFailed:
		sub.Status = models.SubStatusPastDue
	case billing.EventSubscriptionUpdated:
		data := event.Subscription
		if data.CustomerID != "" {
			sub.CustomerID = data.CustomerID
		}
		if data.PlanID != "" {
			sub.PlanID = data.PlanID
		}
		sub.Status = data.Status
		sub.CurrentPeriodEnd = unixTime(data.CurrentPeriodEnd)
		sub.CancelAtPeriodEnd = data.CancelAtPeriodEnd
	case billing.EventSubscriptionDeleted:
		sub.Status = models.SubStatusCanceled
	default:
		return fmt.Errorf("%s: %w", op, billing.ErrUnknownEvent)
	}

	if err := s.repo.UpsertSubscriber(ctx, sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.cache.InvalidateSubscriber(ctx, accountUID)

	s.log.Info("applied webhook event",
		slog.String("event", event.Type),
		slog.String("account_uid", accountUID),
		slog.String("status", sub.Status))
	return nil
}

func unixTime(seconds int64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}

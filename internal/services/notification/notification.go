// Package notification gestiona las suscripciones web push y la
// entrega de los trabajos de notificación consumidos de la cola.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/metrics"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/push"
)

// PushRepository describe el acceso al almacén de suscripciones push.
type PushRepository interface {
	UpsertPushSubscription(ctx context.Context, sub models.PushSubscription) (int, error)
	RemovePushSubscription(ctx context.Context, endpoint string) (int, error)
	ListPushSubscriptions(ctx context.Context, accountUIDs []string) ([]*models.PushSubscription, error)
}

// PushSender entrega un payload a un endpoint push.
type PushSender interface {
	Send(ctx context.Context, sub *models.PushSubscription, payload models.PushPayload) error
}

// Service implementa el registro de suscripciones y la entrega.
type Service struct {
	repo   PushRepository
	sender PushSender
	log    *slog.Logger
}

// NewService crea el servicio de notificaciones.
func NewService(repo PushRepository, sender PushSender, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		sender: sender,
		log:    log,
	}
}

// Subscribe registra (o reactiva) la suscripción push del navegador de
// la cuenta. El endpoint es único: re-suscribirse lo reasigna.
func (s *Service) Subscribe(ctx context.Context, accountUID string, dummy models.DummyPushSubscription) (int, error) {
	const op = "notification.Subscribe"

	id, err := s.repo.UpsertPushSubscription(ctx, models.PushSubscription{
		AccountUID: accountUID,
		Endpoint:   dummy.Endpoint,
		P256dhKey:  dummy.Keys.P256dh,
		AuthKey:    dummy.Keys.Auth,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("push subscription registered",
		slog.Int("subscription_id", id),
		slog.String("account_uid", accountUID))
	return id, nil
}

// Unsubscribe elimina la suscripción del endpoint. Eliminar un endpoint
// desconocido no es un error.
func (s *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	const op = "notification.Unsubscribe"

	if _, err := s.repo.RemovePushSubscription(ctx, endpoint); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HandleJob procesa un trabajo de notificación de la cola: resuelve las
// suscripciones de los destinatarios y envía el payload a cada una. Un
// endpoint desaparecido (410) se poda del almacén; cualquier otro fallo
// se registra sin interrumpir al resto de destinatarios.
func (s *Service) HandleJob(ctx context.Context, body []byte) error {
	const op = "notification.HandleJob"

	var job models.NotificationJob
	if err := json.Unmarshal(body, &job); err != nil {
		// Un cuerpo malformado nunca va a procesarse bien; se descarta.
		s.log.Error("discarding malformed notification job", sl.Err(err))
		return nil
	}
	if len(job.RecipientUIDs) == 0 {
		return nil
	}

	subs, err := s.repo.ListPushSubscriptions(ctx, job.RecipientUIDs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, sub := range subs {
		err := s.sender.Send(ctx, sub, job.Payload)
		switch {
		case err == nil:
			metrics.PushSendsTotal.WithLabelValues("sent").Inc()
		case errors.Is(err, push.ErrSubscriptionGone):
			metrics.PushSendsTotal.WithLabelValues("gone").Inc()
			if _, pruneErr := s.repo.RemovePushSubscription(ctx, sub.Endpoint); pruneErr != nil {
				s.log.Error("failed to prune gone subscription", sl.Err(pruneErr),
					slog.String("endpoint", sub.Endpoint))
			} else {
				s.log.Info("pruned gone push subscription",
					slog.String("account_uid", sub.AccountUID))
			}
		default:
			metrics.PushSendsTotal.WithLabelValues("failed").Inc()
			s.log.Error("failed to send push", sl.Err(err),
				slog.String("account_uid", sub.AccountUID))
		}
	}
	return nil
}

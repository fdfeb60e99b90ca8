// Package reminder genera los recordatorios programados: renovaciones
// de suscripción próximas y equipos sin registro diario. Cada barrido
// publica trabajos de notificación en la cola para el servicio emisor.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/rabbitmq"
)

// renewalWindow es la antelación con la que se avisa del fin de periodo.
const renewalWindow = 72 * time.Hour

// ReminderRepository describe las consultas de los barridos.
type ReminderRepository interface {
	FindSubscribersWithPeriodEndingBefore(ctx context.Context, deadline time.Time) ([]*models.Subscriber, error)
	FindChildrenWithoutLogToday(ctx context.Context) (map[int][]string, error)
}

// JobPublisher publica trabajos de notificación en la cola.
type JobPublisher interface {
	Publish(exchange, routingKey string, message any) error
}

// Service implementa los barridos de recordatorios.
type Service struct {
	repo      ReminderRepository
	publisher JobPublisher
	log       *slog.Logger
}

// NewService crea el servicio de recordatorios.
func NewService(repo ReminderRepository, publisher JobPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// ScanRenewals encola un recordatorio de renovación para cada
// suscriptor cuyo periodo pagado termina dentro de la ventana.
func (s *Service) ScanRenewals(ctx context.Context, now time.Time) (int, error) {
	const op = "reminder.ScanRenewals"

	subs, err := s.repo.FindSubscribersWithPeriodEndingBefore(ctx, now.Add(renewalWindow))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var enqueued int
	for _, sub := range subs {
		days := int(sub.CurrentPeriodEnd.Sub(now).Hours() / 24)
		if days < 0 {
			continue
		}
		job := models.NotificationJob{
			RecipientUIDs: []string{sub.AccountUID},
			Payload: models.PushPayload{
				Title: "Tu suscripción se renueva pronto",
				Body:  fmt.Sprintf("El periodo actual termina en %d día(s). Revisa tu plan si quieres hacer cambios.", days),
				URL:   "/settings/billing",
			},
		}
		if err := s.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.RenewalRouteKey, job); err != nil {
			return enqueued, fmt.Errorf("%s: %w", op, err)
		}
		enqueued++
	}

	s.log.Info("renewal scan finished", slog.Int("enqueued", enqueued))
	return enqueued, nil
}

// ScanMissingLogs encola un recordatorio para cada equipo de cuidado
// que aún no ha escrito el registro diario de hoy.
func (s *Service) ScanMissingLogs(ctx context.Context) (int, error) {
	const op = "reminder.ScanMissingLogs"

	teams, err := s.repo.FindChildrenWithoutLogToday(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var enqueued int
	for childID, memberUIDs := range teams {
		if len(memberUIDs) == 0 {
			continue
		}
		job := models.NotificationJob{
			RecipientUIDs: memberUIDs,
			Payload: models.PushPayload{
				Title: "Falta el registro de hoy",
				Body:  "Todavía nadie ha escrito el registro diario. Cuéntale al equipo cómo fue el día.",
				URL:   fmt.Sprintf("/children/%d/logs", childID),
			},
		}
		if err := s.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.DailyLogRouteKey, job); err != nil {
			return enqueued, fmt.Errorf("%s: %w", op, err)
		}
		enqueued++
	}

	s.log.Info("daily log scan finished", slog.Int("enqueued", enqueued))
	return enqueued, nil
}

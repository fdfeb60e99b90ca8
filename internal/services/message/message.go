// Package message gestiona el hilo de mensajes del equipo de cuidado y
// el abanico de notificaciones push a los demás miembros.
package message

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/sl"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/rabbitmq"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

// Límites de paginación del hilo.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// MessageRepository describe el acceso al almacén de mensajes.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message models.Message) (int, error)
	ReadMessage(ctx context.Context, id int) (*models.Message, error)
	ListMessages(ctx context.Context, childID, limit, offset int) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, messageID int, accountUID string) error
	ListUnreadRecipients(ctx context.Context, messageID int) ([]string, error)
	ReadChild(ctx context.Context, id int) (*models.Child, error)
}

// JobPublisher publica trabajos de notificación en la cola.
type JobPublisher interface {
	Publish(exchange, routingKey string, message any) error
}

// Service implementa las operaciones del hilo de mensajes.
type Service struct {
	repo      MessageRepository
	publisher JobPublisher
	guard     *access.Guard
	log       *slog.Logger
}

// NewService crea el servicio de mensajes.
func NewService(repo MessageRepository, publisher JobPublisher, guard *access.Guard, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		guard:     guard,
		log:       log,
	}
}

// Create publica un mensaje en el hilo y encola la notificación push
// para los demás miembros del equipo. El fallo al encolar no deshace
// el mensaje ya escrito.
func (s *Service) Create(ctx context.Context, senderUID string, childID int, body string) (int, error) {
	const op = "message.Create"

	if err := s.guard.RequireMember(ctx, childID, senderUID); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateMessage(ctx, models.Message{
		ChildID:   childID,
		SenderUID: senderUID,
		Body:      body,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifyTeam(ctx, id, childID, body); err != nil {
		s.log.Error("failed to enqueue message notification", sl.Err(err),
			slog.Int("message_id", id))
	}

	s.log.Info("message created",
		slog.Int("message_id", id),
		slog.Int("child_id", childID),
		slog.String("sender_uid", senderUID))
	return id, nil
}

// notifyTeam encola un trabajo push para los miembros del equipo sin
// acuse de lectura del mensaje. El emisor ya tiene acuse propio, así
// que nunca se notifica a sí mismo.
func (s *Service) notifyTeam(ctx context.Context, messageID, childID int, body string) error {
	const op = "message.notifyTeam"

	recipients, err := s.repo.ListUnreadRecipients(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(recipients) == 0 {
		return nil
	}
	child, err := s.repo.ReadChild(ctx, childID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	job := models.NotificationJob{
		RecipientUIDs: recipients,
		Payload: models.PushPayload{
			Title: fmt.Sprintf("Nuevo mensaje del equipo de %s", child.Name),
			Body:  truncate(body, 120),
			URL:   fmt.Sprintf("/children/%d/messages", childID),
		},
	}
	if err := s.publisher.Publish(rabbitmq.NotificationsExchange, rabbitmq.TeamMessageRouteKey, job); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List devuelve los mensajes del hilo, más recientes primero.
func (s *Service) List(ctx context.Context, accountUID string, childID, limit, offset int) ([]*models.Message, error) {
	const op = "message.List"

	if err := s.guard.RequireMember(ctx, childID, accountUID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.repo.ListMessages(ctx, childID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return messages, nil
}

// MarkRead registra el acuse de lectura de la cuenta sobre el mensaje.
func (s *Service) MarkRead(ctx context.Context, accountUID string, messageID int) error {
	const op = "message.MarkRead"

	message, err := s.repo.ReadMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.guard.RequireMember(ctx, message.ChildID, accountUID); err != nil {
		return err
	}
	if err := s.repo.MarkMessageRead(ctx, messageID, accountUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

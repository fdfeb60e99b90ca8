package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// CreateMessage inserta un mensaje en el hilo del niño y registra el
// acuse de lectura del propio emisor en la misma transacción.
func (s *Storage) CreateMessage(ctx context.Context, message models.Message) (int, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO messages (child_id, sender_uid, body)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	if err := tx.QueryRowContext(ctx, query,
		message.ChildID, message.SenderUID, message.Body).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	receiptQuery := `INSERT INTO read_receipts (message_id, account_uid) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, receiptQuery, newID, message.SenderUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadMessage devuelve un mensaje por su ID.
func (s *Storage) ReadMessage(ctx context.Context, id int) (*models.Message, error) {
	const op = "storage.ReadMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, child_id, sender_uid, body, created_at
			  FROM messages WHERE id = $1`
	var message models.Message
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&message.ID, &message.ChildID, &message.SenderUID,
		&message.Body, &message.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMessageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &message, nil
}

// ListMessages devuelve los mensajes del hilo con sus acuses de lectura,
// paginados del más antiguo al más reciente.
func (s *Storage) ListMessages(ctx context.Context, childID, limit, offset int) ([]*models.Message, error) {
	const op = "storage.ListMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.id, m.child_id, m.sender_uid, m.body, m.created_at,
			      COALESCE(array_agg(r.account_uid::text) FILTER (WHERE r.account_uid IS NOT NULL), '{}')
			  FROM messages m
			  LEFT JOIN read_receipts r ON r.message_id = m.id
			  WHERE m.child_id = $1
			  GROUP BY m.id
			  ORDER BY m.created_at, m.id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, childID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		var message models.Message
		var readBy []byte
		if err := rows.Scan(&message.ID, &message.ChildID, &message.SenderUID,
			&message.Body, &message.CreatedAt, &readBy); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		message.ReadBy = parseTextArray(readBy)
		result = append(result, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkMessageRead registra el acuse de lectura de la cuenta. Repetir la
// marca no es un error.
func (s *Storage) MarkMessageRead(ctx context.Context, messageID int, accountUID string) error {
	const op = "storage.MarkMessageRead"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO read_receipts (message_id, account_uid)
			  VALUES ($1, $2)
			  ON CONFLICT (message_id, account_uid) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, messageID, accountUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUnreadRecipients devuelve los UID de los miembros del equipo sin
// acuse de lectura para el mensaje, excluido el emisor.
func (s *Storage) ListUnreadRecipients(ctx context.Context, messageID int) ([]string, error) {
	const op = "storage.ListUnreadRecipients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.account_uid
			  FROM care_team_members m
			  JOIN messages msg ON msg.child_id = m.child_id
			  WHERE msg.id = $1
			    AND m.account_uid <> msg.sender_uid
			    AND NOT EXISTS (
			        SELECT 1 FROM read_receipts r
			        WHERE r.message_id = msg.id AND r.account_uid = m.account_uid
			    )`
	rows, err := s.DB.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

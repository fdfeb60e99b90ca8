package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// GetSubscriber devuelve el registro de suscriptor de la cuenta o
// ErrSubscriberNotFound si no existe.
func (s *Storage) GetSubscriber(ctx context.Context, accountUID string) (*models.Subscriber, error) {
	const op = "storage.GetSubscriber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT account_uid, customer_id, plan_id, status, current_period_end,
			      cancel_at_period_end, updated_at
			  FROM subscribers
			  WHERE account_uid = $1`
	sub := &models.Subscriber{}
	row := s.DB.QueryRowContext(ctx, query, accountUID)

	var periodEnd sql.NullTime
	if err := row.Scan(&sub.AccountUID, &sub.CustomerID, &sub.PlanID, &sub.Status,
		&periodEnd, &sub.CancelAtPeriodEnd, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriberNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = periodEnd.Time
	}
	return sub, nil
}

// UpsertSubscriber sobreescribe el registro de suscriptor de la cuenta.
// La semántica de sobreescritura de campos hace idempotente la
// reentrega del mismo evento de webhook.
func (s *Storage) UpsertSubscriber(ctx context.Context, sub models.Subscriber) error {
	const op = "storage.UpsertSubscriber"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscribers (account_uid, customer_id, plan_id, status,
			      current_period_end, cancel_at_period_end, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, now())
			  ON CONFLICT (account_uid) DO UPDATE
			  SET customer_id = EXCLUDED.customer_id,
			      plan_id = EXCLUDED.plan_id,
			      status = EXCLUDED.status,
			      current_period_end = EXCLUDED.current_period_end,
			      cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			      updated_at = now()`
	var periodEnd any
	if !sub.CurrentPeriodEnd.IsZero() {
		periodEnd = sub.CurrentPeriodEnd
	}
	_, err := s.DB.ExecContext(ctx, query,
		sub.AccountUID, sub.CustomerID, sub.PlanID, sub.Status,
		periodEnd, sub.CancelAtPeriodEnd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriberStatus cambia solo el estado del suscriptor.
func (s *Storage) UpdateSubscriberStatus(ctx context.Context, accountUID, status string) error {
	const op = "storage.UpdateSubscriberStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscribers
			  SET status = $1, updated_at = now()
			  WHERE account_uid = $2`
	_, err := s.DB.ExecContext(ctx, query, status, accountUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindSubscribersWithPeriodEndingBefore devuelve los suscriptores
// activos sin cancelación pendiente cuyo periodo pagado termina antes
// del instante indicado. Lo usa el recordatorio de renovación.
func (s *Storage) FindSubscribersWithPeriodEndingBefore(ctx context.Context, deadline time.Time) ([]*models.Subscriber, error) {
	const op = "storage.FindSubscribersWithPeriodEndingBefore"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT account_uid, customer_id, plan_id, status, current_period_end,
			      cancel_at_period_end, updated_at
			  FROM subscribers
			  WHERE status = 'active'
			    AND cancel_at_period_end = false
			    AND current_period_end IS NOT NULL
			    AND current_period_end > now()
			    AND current_period_end < $1`
	rows, err := s.DB.QueryContext(ctx, query, deadline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		var periodEnd sql.NullTime
		if err := rows.Scan(&sub.AccountUID, &sub.CustomerID, &sub.PlanID, &sub.Status,
			&periodEnd, &sub.CancelAtPeriodEnd, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if periodEnd.Valid {
			sub.CurrentPeriodEnd = periodEnd.Time
		}
		result = append(result, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

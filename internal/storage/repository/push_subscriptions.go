package repository

import (
	"context"
	"fmt"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// UpsertPushSubscription guarda una suscripción push. Si el endpoint ya
// existe se reasigna a la cuenta y se renuevan las claves.
func (s *Storage) UpsertPushSubscription(ctx context.Context, sub models.PushSubscription) (int, error) {
	const op = "storage.UpsertPushSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO push_subscriptions (account_uid, endpoint, p256dh_key, auth_key)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (endpoint) DO UPDATE
			  SET account_uid = EXCLUDED.account_uid,
			      p256dh_key = EXCLUDED.p256dh_key,
			      auth_key = EXCLUDED.auth_key
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.AccountUID, sub.Endpoint, sub.P256dhKey, sub.AuthKey).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemovePushSubscription elimina la suscripción por endpoint y devuelve
// el número de filas afectadas.
func (s *Storage) RemovePushSubscription(ctx context.Context, endpoint string) (int, error) {
	const op = "storage.RemovePushSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM push_subscriptions WHERE endpoint = $1`
	result, err := s.DB.ExecContext(ctx, query, endpoint)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPushSubscriptions devuelve las suscripciones push de un conjunto
// de cuentas destinatarias.
func (s *Storage) ListPushSubscriptions(ctx context.Context, accountUIDs []string) ([]*models.PushSubscription, error) {
	const op = "storage.ListPushSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, account_uid, endpoint, p256dh_key, auth_key, created_at
			  FROM push_subscriptions
			  WHERE account_uid = ANY($1)
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, accountUIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PushSubscription
	for rows.Next() {
		var sub models.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.AccountUID, &sub.Endpoint, &sub.P256dhKey,
			&sub.AuthKey, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

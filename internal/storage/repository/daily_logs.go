package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// CreateDailyLog inserta un registro diario y devuelve su ID.
func (s *Storage) CreateDailyLog(ctx context.Context, entry models.DailyLog) (int, error) {
	const op = "storage.CreateDailyLog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO daily_logs (child_id, author_uid, log_date, mood, summary,
			      meals, sleep_hours, incidents)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.ChildID, entry.AuthorUID, entry.LogDate, entry.Mood, entry.Summary,
		entry.Meals, entry.SleepHours, entry.Incidents).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListDailyLogs devuelve los registros diarios del niño con paginación,
// los más recientes primero.
func (s *Storage) ListDailyLogs(ctx context.Context, childID, limit, offset int) ([]*models.DailyLog, error) {
	const op = "storage.ListDailyLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, child_id, author_uid, log_date, mood, summary, meals,
			      sleep_hours, incidents, created_at
			  FROM daily_logs
			  WHERE child_id = $1
			  ORDER BY log_date DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, childID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DailyLog
	for rows.Next() {
		var item models.DailyLog
		if err := rows.Scan(&item.ID, &item.ChildID, &item.AuthorUID, &item.LogDate,
			&item.Mood, &item.Summary, &item.Meals, &item.SleepHours, &item.Incidents,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListDailyLogsBetween devuelve los registros del niño dentro de la
// ventana indicada. Lo usa el informe de progreso.
func (s *Storage) ListDailyLogsBetween(ctx context.Context, childID int, from, to time.Time) ([]*models.DailyLog, error) {
	const op = "storage.ListDailyLogsBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, child_id, author_uid, log_date, mood, summary, meals,
			      sleep_hours, incidents, created_at
			  FROM daily_logs
			  WHERE child_id = $1 AND log_date >= $2 AND log_date <= $3
			  ORDER BY log_date`
	rows, err := s.DB.QueryContext(ctx, query, childID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DailyLog
	for rows.Next() {
		var item models.DailyLog
		if err := rows.Scan(&item.ID, &item.ChildID, &item.AuthorUID, &item.LogDate,
			&item.Mood, &item.Summary, &item.Meals, &item.SleepHours, &item.Incidents,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// CreateGoal inserta una meta nueva y devuelve su ID.
func (s *Storage) CreateGoal(ctx context.Context, goal models.Goal) (int, error) {
	const op = "storage.CreateGoal"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO goals (child_id, title, area, target_value, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		goal.ChildID, goal.Title, goal.Area, goal.TargetValue, models.GoalStatusActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadGoal devuelve la meta por su ID.
func (s *Storage) ReadGoal(ctx context.Context, id int) (*models.Goal, error) {
	const op = "storage.ReadGoal"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, child_id, title, area, target_value, status, created_at
			  FROM goals WHERE id = $1`
	var goal models.Goal
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&goal.ID, &goal.ChildID, &goal.Title, &goal.Area,
		&goal.TargetValue, &goal.Status, &goal.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrGoalNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &goal, nil
}

// ListGoals devuelve las metas del niño.
func (s *Storage) ListGoals(ctx context.Context, childID int) ([]*models.Goal, error) {
	const op = "storage.ListGoals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, child_id, title, area, target_value, status, created_at
			  FROM goals
			  WHERE child_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Goal
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(&goal.ID, &goal.ChildID, &goal.Title, &goal.Area,
			&goal.TargetValue, &goal.Status, &goal.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateGoalStatus cambia el estado de la meta.
func (s *Storage) UpdateGoalStatus(ctx context.Context, goalID int, status string) error {
	const op = "storage.UpdateGoalStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE goals SET status = $1 WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, status, goalID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateGoalProgress inserta una medición de progreso y devuelve su ID.
func (s *Storage) CreateGoalProgress(ctx context.Context, progress models.GoalProgress) (int, error) {
	const op = "storage.CreateGoalProgress"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO goal_progress (goal_id, author_uid, recorded_at, value, note)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		progress.GoalID, progress.AuthorUID, progress.RecordedAt, progress.Value,
		progress.Note).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListGoalProgress devuelve las mediciones de la meta en orden temporal.
func (s *Storage) ListGoalProgress(ctx context.Context, goalID int) ([]*models.GoalProgress, error) {
	const op = "storage.ListGoalProgress"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, goal_id, author_uid, recorded_at, value, note
			  FROM goal_progress
			  WHERE goal_id = $1
			  ORDER BY recorded_at, id`
	rows, err := s.DB.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.GoalProgress
	for rows.Next() {
		var item models.GoalProgress
		if err := rows.Scan(&item.ID, &item.GoalID, &item.AuthorUID, &item.RecordedAt,
			&item.Value, &item.Note); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListGoalProgressBetween devuelve las mediciones de la meta dentro de
// la ventana indicada. Lo usa el informe de progreso.
func (s *Storage) ListGoalProgressBetween(ctx context.Context, goalID int, from, to time.Time) ([]*models.GoalProgress, error) {
	const op = "storage.ListGoalProgressBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, goal_id, author_uid, recorded_at, value, note
			  FROM goal_progress
			  WHERE goal_id = $1 AND recorded_at >= $2 AND recorded_at <= $3
			  ORDER BY recorded_at, id`
	rows, err := s.DB.QueryContext(ctx, query, goalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.GoalProgress
	for rows.Next() {
		var item models.GoalProgress
		if err := rows.Scan(&item.ID, &item.GoalID, &item.AuthorUID, &item.RecordedAt,
			&item.Value, &item.Note); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

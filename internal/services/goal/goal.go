// Package goal gestiona las metas de desarrollo, su progreso y el
// informe agregado de un niño.
package goal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

// ErrInvalidWindow se devuelve cuando la ventana del informe está vacía
// o invertida.
var ErrInvalidWindow = errors.New("invalid report window")

// GoalRepository describe el acceso al almacén de metas y progreso.
type GoalRepository interface {
	CreateGoal(ctx context.Context, goal models.Goal) (int, error)
	ReadGoal(ctx context.Context, id int) (*models.Goal, error)
	ListGoals(ctx context.Context, childID int) ([]*models.Goal, error)
	UpdateGoalStatus(ctx context.Context, goalID int, status string) error
	CreateGoalProgress(ctx context.Context, progress models.GoalProgress) (int, error)
	ListGoalProgress(ctx context.Context, goalID int) ([]*models.GoalProgress, error)
	ListGoalProgressBetween(ctx context.Context, goalID int, from, to time.Time) ([]*models.GoalProgress, error)
}

// LogRepository aporta los registros diarios a la media de ánimo del
// informe.
type LogRepository interface {
	ListDailyLogsBetween(ctx context.Context, childID int, from, to time.Time) ([]*models.DailyLog, error)
}

// Service implementa las operaciones sobre metas e informes.
type Service struct {
	repo  GoalRepository
	logs  LogRepository
	guard *access.Guard
	log   *slog.Logger
}

// NewService crea el servicio de metas.
func NewService(repo GoalRepository, logs LogRepository, guard *access.Guard, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		logs:  logs,
		guard: guard,
		log:   log,
	}
}

// Create registra una meta activa para el niño.
func (s *Service) Create(ctx context.Context, accountUID string, childID int, dummy models.DummyGoal) (int, error) {
	const op = "goal.Create"

	if err := s.guard.RequireMember(ctx, childID, accountUID); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateGoal(ctx, models.Goal{
		ChildID:     childID,
		Title:       dummy.Title,
		Area:        dummy.Area,
		TargetValue: dummy.TargetValue,
		Status:      models.GoalStatusActive,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("goal created",
		slog.Int("goal_id", id),
		slog.Int("child_id", childID))
	return id, nil
}

// List devuelve las metas del niño.
func (s *Service) List(ctx context.Context, accountUID string, childID int) ([]*models.Goal, error) {
	const op = "goal.List"

	if err := s.guard.RequireMember(ctx, childID, accountUID); err != nil {
		return nil, err
	}
	goals, err := s.repo.ListGoals(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return goals, nil
}

// UpdateStatus cambia el estado de la meta (active, achieved, archived).
func (s *Service) UpdateStatus(ctx context.Context, accountUID string, goalID int, status string) error {
	const op = "goal.UpdateStatus"

	goal, err := s.repo.ReadGoal(ctx, goalID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.guard.RequireMember(ctx, goal.ChildID, accountUID); err != nil {
		return err
	}
	if err := s.repo.UpdateGoalStatus(ctx, goalID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddProgress registra una medición de avance sobre la meta.
func (s *Service) AddProgress(ctx context.Context, accountUID string, goalID int, dummy models.DummyGoalProgress) (int, error) {
	const op = "goal.AddProgress"

	goal, err := s.repo.ReadGoal(ctx, goalID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.guard.RequireMember(ctx, goal.ChildID, accountUID); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateGoalProgress(ctx, models.GoalProgress{
		GoalID:     goalID,
		AuthorUID:  accountUID,
		RecordedAt: time.Now().UTC(),
		Value:      dummy.Value,
		Note:       dummy.Note,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListProgress devuelve las mediciones de la meta en orden cronológico.
func (s *Service) ListProgress(ctx context.Context, accountUID string, goalID int) ([]*models.GoalProgress, error) {
	const op = "goal.ListProgress"

	goal, err := s.repo.ReadGoal(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.guard.RequireMember(ctx, goal.ChildID, accountUID); err != nil {
		return nil, err
	}

	progress, err := s.repo.ListGoalProgress(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return progress, nil
}

// BuildReport agrega las metas y el diario del niño en la ventana
// [from, to]: media de ánimo, recuento de entradas y resumen por meta
// con último valor, porcentaje hacia el objetivo y tendencia.
func (s *Service) BuildReport(ctx context.Context, accountUID string, childID int, from, to time.Time) (*models.ChildReport, error) {
	const op = "goal.BuildReport"

	if !from.Before(to) {
		return nil, ErrInvalidWindow
	}
	if err := s.guard.RequireMember(ctx, childID, accountUID); err != nil {
		return nil, err
	}

	entries, err := s.logs.ListDailyLogsBetween(ctx, childID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report := &models.ChildReport{
		ChildID:  childID,
		From:     from,
		To:       to,
		LogCount: len(entries),
	}
	if len(entries) > 0 {
		var moodSum int
		for _, entry := range entries {
			moodSum += entry.Mood
		}
		report.MoodAverage = float64(moodSum) / float64(len(entries))
	}

	goals, err := s.repo.ListGoals(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, goal := range goals {
		progress, err := s.repo.ListGoalProgressBetween(ctx, goal.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		report.Goals = append(report.Goals, summarize(goal, progress))
	}
	return report, nil
}

// summarize condensa las mediciones de la ventana en un resumen de meta.
func summarize(goal *models.Goal, progress []*models.GoalProgress) models.GoalSummary {
	summary := models.GoalSummary{
		GoalID:      goal.ID,
		Title:       goal.Title,
		Area:        goal.Area,
		Status:      goal.Status,
		TargetValue: goal.TargetValue,
		Trend:       "steady",
		Entries:     len(progress),
	}
	if len(progress) == 0 {
		return summary
	}

	first := progress[0].Value
	last := progress[len(progress)-1].Value
	summary.LatestValue = last
	switch {
	case last > first:
		summary.Trend = "improving"
	case last < first:
		summary.Trend = "declining"
	}
	if goal.TargetValue > 0 {
		percent := float64(last) / float64(goal.TargetValue) * 100
		if percent > 100 {
			percent = 100
		}
		summary.PercentToTarget = percent
	}
	return summary
}

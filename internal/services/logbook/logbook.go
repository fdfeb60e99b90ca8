// Package logbook gestiona los registros diarios del equipo de cuidado.
package logbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

// Límites de paginación del listado de registros.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidLogDate se devuelve cuando la fecha del registro no tiene
// el formato 2006-01-02 o está en el futuro.
var ErrInvalidLogDate = errors.New("invalid log date")

// LogRepository describe el acceso al almacén de registros diarios.
type LogRepository interface {
	CreateDailyLog(ctx context.Context, entry models.DailyLog) (int, error)
	ListDailyLogs(ctx context.Context, childID, limit, offset int) ([]*models.DailyLog, error)
}

// Service implementa las operaciones del diario.
type Service struct {
	repo  LogRepository
	guard *access.Guard
	log   *slog.Logger
}

// NewService crea el servicio del diario.
func NewService(repo LogRepository, guard *access.Guard, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		guard: guard,
		log:   log,
	}
}

// Create registra una entrada del diario firmada por el autor.
func (s *Service) Create(ctx context.Context, authorUID string, childID int, dummy models.DummyDailyLog) (int, error) {
	const op = "logbook.Create"

	if err := s.guard.RequireMember(ctx, childID, authorUID); err != nil {
		return 0, err
	}

	logDate, err := time.Parse("2006-01-02", dummy.LogDate)
	if err != nil || logDate.After(time.Now()) {
		return 0, ErrInvalidLogDate
	}

	id, err := s.repo.CreateDailyLog(ctx, models.DailyLog{
		ChildID:    childID,
		AuthorUID:  authorUID,
		LogDate:    logDate,
		Mood:       dummy.Mood,
		Summary:    dummy.Summary,
		Meals:      dummy.Meals,
		SleepHours: dummy.SleepHours,
		Incidents:  dummy.Incidents,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("daily log created",
		slog.Int("log_id", id),
		slog.Int("child_id", childID),
		slog.String("author_uid", authorUID))
	return id, nil
}

// List devuelve las entradas del diario, más recientes primero.
// El límite se acota a MaxLimit y los valores no positivos toman
// DefaultLimit.
func (s *Service) List(ctx context.Context, accountUID string, childID, limit, offset int) ([]*models.DailyLog, error) {
	const op = "logbook.List"

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

	entries, err := s.repo.ListDailyLogs(ctx, childID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// Package child gestiona los perfiles de niños y sus equipos de cuidado.
package child

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/services/access"
)

// ErrNotGuardian se devuelve cuando alguien que no es el guardián
// propietario intenta administrar el equipo.
var ErrNotGuardian = errors.New("only the owning guardian can manage the team")

// ErrInvalidBirthDate se devuelve cuando la fecha de nacimiento no
// tiene el formato 2006-01-02 o está en el futuro.
var ErrInvalidBirthDate = errors.New("invalid birth date")

// ChildRepository describe el acceso al almacén de perfiles y equipos.
type ChildRepository interface {
	CreateChild(ctx context.Context, child models.Child) (int, error)
	ReadChild(ctx context.Context, id int) (*models.Child, error)
	ListChildrenForAccount(ctx context.Context, accountUID string) ([]*models.Child, error)
	AddTeamMember(ctx context.Context, childID int, accountUID string) error
	ListTeamMembers(ctx context.Context, childID int) ([]*models.CareTeamMember, error)
}

// AccountRepository resuelve la cuenta invitada por nombre de usuario.
type AccountRepository interface {
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
}

// Service implementa las operaciones sobre perfiles y equipos.
type Service struct {
	repo     ChildRepository
	accounts AccountRepository
	guard    *access.Guard
	log      *slog.Logger
}

// NewService crea el servicio de perfiles.
func NewService(repo ChildRepository, accounts AccountRepository, guard *access.Guard, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		guard:    guard,
		log:      log,
	}
}

// Create registra un perfil de niño. El guardián que lo crea queda como
// propietario y primer miembro del equipo.
func (s *Service) Create(ctx context.Context, guardianUID string, dummy models.DummyChild) (int, error) {
	const op = "child.Create"

	birthDate, err := time.Parse("2006-01-02", dummy.BirthDate)
	if err != nil || birthDate.After(time.Now()) {
		return 0, ErrInvalidBirthDate
	}

	id, err := s.repo.CreateChild(ctx, models.Child{
		GuardianUID:    guardianUID,
		Name:           dummy.Name,
		BirthDate:      birthDate,
		DiagnosisNotes: dummy.DiagnosisNotes,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("child profile created",
		slog.Int("child_id", id),
		slog.String("guardian_uid", guardianUID))
	return id, nil
}

// Read devuelve el perfil si la cuenta pertenece a su equipo.
func (s *Service) Read(ctx context.Context, accountUID string, childID int) (*models.Child, error) {
	const op = "child.Read"

	if err := s.guard.RequireMember(ctx, childID, accountUID); err != nil {
		return nil, err
	}
	child, err := s.repo.ReadChild(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return child, nil
}

// List devuelve los perfiles en cuyos equipos participa la cuenta.
func (s *Service) List(ctx context.Context, accountUID string) ([]*models.Child, error) {
	const op = "child.List"

	children, err := s.repo.ListChildrenForAccount(ctx, accountUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return children, nil
}

// AddMember invita a una cuenta al equipo por su nombre de usuario.
// Solo el guardián propietario puede ampliar el equipo.
func (s *Service) AddMember(ctx context.Context, requesterUID string, childID int, username string) error {
	const op = "child.AddMember"

	child, err := s.repo.ReadChild(ctx, childID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if child.GuardianUID != requesterUID {
		return ErrNotGuardian
	}

	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.AddTeamMember(ctx, childID, account.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("team member added",
		slog.Int("child_id", childID),
		slog.String("member_uid", account.UID),
		slog.String("role", account.Role))
	return nil
}

// ListMembers devuelve el equipo de cuidado del niño.
func (s *Service) ListMembers(ctx context.Context, accountUID string, childID int) ([]*models.CareTeamMember, error) {
	const op = "child.ListMembers"

	if err := s.guard.RequireMember(ctx, childID, accountUID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListTeamMembers(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return members, nil
}

// Package access centraliza la comprobación de pertenencia al equipo de
// cuidado: toda operación sobre un niño exige que la cuenta sea miembro.
package access

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotTeamMember se devuelve cuando la cuenta no pertenece al equipo
// de cuidado del niño.
var ErrNotTeamMember = errors.New("account is not a care team member")

// MembershipRepository consulta la tabla de miembros del equipo.
type MembershipRepository interface {
	IsTeamMember(ctx context.Context, childID int, accountUID string) (bool, error)
}

// Guard comprueba la pertenencia antes de cada operación.
type Guard struct {
	repo MembershipRepository
}

// NewGuard crea el guard sobre el repositorio de miembros.
func NewGuard(repo MembershipRepository) *Guard {
	return &Guard{repo: repo}
}

// RequireMember falla con ErrNotTeamMember si la cuenta no es miembro
// del equipo del niño.
func (g *Guard) RequireMember(ctx context.Context, childID int, accountUID string) error {
	const op = "access.RequireMember"

	ok, err := g.repo.IsTeamMember(ctx, childID, accountUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return ErrNotTeamMember
	}
	return nil
}

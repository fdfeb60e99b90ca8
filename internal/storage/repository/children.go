package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// CreateChild inserta un perfil de niño y devuelve su ID. El guardián
// creador queda también como miembro del equipo de cuidado.
func (s *Storage) CreateChild(ctx context.Context, child models.Child) (int, error) {
	const op = "storage.CreateChild"
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

	query := `INSERT INTO children (guardian_uid, name, birth_date, diagnosis_notes)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	if err := tx.QueryRowContext(ctx, query,
		child.GuardianUID, child.Name, child.BirthDate, child.DiagnosisNotes).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	memberQuery := `INSERT INTO care_team_members (child_id, account_uid) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, memberQuery, newID, child.GuardianUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadChild devuelve el perfil del niño por su ID.
func (s *Storage) ReadChild(ctx context.Context, id int) (*models.Child, error) {
	const op = "storage.ReadChild"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, guardian_uid, name, birth_date, diagnosis_notes, created_at
			  FROM children WHERE id = $1`
	var child models.Child
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&child.ID, &child.GuardianUID, &child.Name, &child.BirthDate,
		&child.DiagnosisNotes, &child.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrChildNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &child, nil
}

// ListChildrenForAccount devuelve los niños en cuyos equipos participa
// la cuenta.
func (s *Storage) ListChildrenForAccount(ctx context.Context, accountUID string) ([]*models.Child, error) {
	const op = "storage.ListChildrenForAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.guardian_uid, c.name, c.birth_date, c.diagnosis_notes, c.created_at
			  FROM children c
			  JOIN care_team_members m ON m.child_id = c.id
			  WHERE m.account_uid = $1
			  ORDER BY c.id`
	rows, err := s.DB.QueryContext(ctx, query, accountUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Child
	for rows.Next() {
		var child models.Child
		if err := rows.Scan(&child.ID, &child.GuardianUID, &child.Name, &child.BirthDate,
			&child.DiagnosisNotes, &child.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &child)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IsTeamMember indica si la cuenta pertenece al equipo de cuidado del niño.
func (s *Storage) IsTeamMember(ctx context.Context, childID int, accountUID string) (bool, error) {
	const op = "storage.IsTeamMember"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM care_team_members
			      WHERE child_id = $1 AND account_uid = $2
			  )`
	var isMember bool
	if err := s.DB.QueryRowContext(ctx, query, childID, accountUID).Scan(&isMember); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return isMember, nil
}

// AddTeamMember añade una cuenta al equipo de cuidado del niño.
// La inserción repetida del mismo miembro no es un error.
func (s *Storage) AddTeamMember(ctx context.Context, childID int, accountUID string) error {
	const op = "storage.AddTeamMember"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO care_team_members (child_id, account_uid)
			  VALUES ($1, $2)
			  ON CONFLICT (child_id, account_uid) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, childID, accountUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTeamMembers devuelve los miembros del equipo de cuidado del niño.
func (s *Storage) ListTeamMembers(ctx context.Context, childID int) ([]*models.CareTeamMember, error) {
	const op = "storage.ListTeamMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.child_id, a.uid, a.username, a.display_name, a.role
			  FROM care_team_members m
			  JOIN accounts a ON a.uid = m.account_uid
			  WHERE m.child_id = $1
			  ORDER BY a.username`
	rows, err := s.DB.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CareTeamMember
	for rows.Next() {
		var member models.CareTeamMember
		if err := rows.Scan(&member.ChildID, &member.AccountUID, &member.Username,
			&member.DisplayName, &member.Role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindChildrenWithoutLogToday devuelve los niños sin registro diario de
// hoy junto con los UID de sus guardianes. Lo usa el recordatorio diario.
func (s *Storage) FindChildrenWithoutLogToday(ctx context.Context) (map[int][]string, error) {
	const op = "storage.FindChildrenWithoutLogToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.guardian_uid
			  FROM children c
			  WHERE NOT EXISTS (
			      SELECT 1 FROM daily_logs l
			      WHERE l.child_id = c.id AND l.log_date = CURRENT_DATE
			  )`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[int][]string)
	for rows.Next() {
		var childID int
		var guardianUID string
		if err := rows.Scan(&childID, &guardianUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[childID] = append(result[childID], guardianUID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

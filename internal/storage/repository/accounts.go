package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// RegisterAccount guarda una cuenta nueva y devuelve su UID.
func (s *Storage) RegisterAccount(ctx context.Context, account models.Account) (string, error) {
	const op = "storage.RegisterAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO accounts (uid, email, username, password_hash, role, display_name)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		account.UID, account.Email, account.Username, account.PasswordHash, account.Role,
		account.DisplayName).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetAccountByUsername devuelve la cuenta con ese nombre de usuario.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.GetAccountByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, display_name, created_at
			  FROM accounts
			  WHERE username = $1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, username)

	if err := row.Scan(&a.UID, &a.Email, &a.Username, &a.PasswordHash,
		&a.Role, &a.DisplayName, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetAccount devuelve la cuenta con ese UID.
func (s *Storage) GetAccount(ctx context.Context, accountUID string) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, display_name, created_at
			  FROM accounts
			  WHERE uid = $1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, accountUID)

	if err := row.Scan(&a.UID, &a.Email, &a.Username, &a.PasswordHash,
		&a.Role, &a.DisplayName, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

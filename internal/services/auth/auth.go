// Package auth contiene la lógica de registro, inicio de sesión y
// validación de tokens de las cuentas.
package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/jwt"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/lib/password"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

// ErrInvalidCredentials se devuelve cuando usuario o contraseña no
// coinciden, sin distinguir cuál.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountRepository describe el contrato con el almacén de cuentas.
type AccountRepository interface {
	// RegisterAccount guarda una cuenta nueva y devuelve su UID.
	RegisterAccount(ctx context.Context, account models.Account) (string, error)
	// GetAccountByUsername devuelve la cuenta o un error si no existe.
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
}

// AuthService gestiona registro, login y validación de JWT.
type AuthService struct {
	accounts AccountRepository
	jwtMaker jwt.Maker
}

// NewAuthService crea un AuthService.
func NewAuthService(accounts AccountRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		accounts: accounts,
		jwtMaker: jwtMaker,
	}
}

// Register crea la cuenta con la contraseña hasheada y el rol indicado.
// No crea registro de suscriptor: eso ocurre solo vía webhook de pago.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword, role, displayName string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	account := models.Account{
		UID:          uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		DisplayName:  displayName,
	}
	return s.accounts.RegisterAccount(ctx, account)
}

// Login verifica las credenciales y genera el JWT de sesión.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(account.Username, account.Role, account.UID)
	if err != nil {
		return "", "", err
	}
	return token, account.Role, nil
}

// ValidateToken comprueba el JWT y devuelve los datos de la cuenta.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.Account, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Account{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.AccountUID,
	}, nil
}

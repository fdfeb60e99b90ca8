// Package jwt implementa la generación y verificación de tokens JWT de
// sesión con claims propios (usuario, rol y uid de cuenta).
package jwt

import (
	"time"
)

// Maker describe el contrato de generación y parseo de tokens.
type Maker interface {
	// GenerateToken crea un token firmado para la cuenta indicada.
	GenerateToken(username, role, accountUID string) (string, error)
	// ParseToken valida el token y devuelve sus claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implementa Maker con clave secreta HS256 y TTL fijo.
type MakerImpl struct {
	secretKey string        // Clave secreta de firma
	tokenTTL  time.Duration // Vigencia del token
}

// NewJWTMaker crea un MakerImpl a partir de la clave secreta y el TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

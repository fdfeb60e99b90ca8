package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims describe los datos de la cuenta almacenados en el JWT.
type CustomClaims struct {
	Username             string `json:"username"`    // Nombre de usuario
	Role                 string `json:"role"`        // Rol de la cuenta
	AccountUID           string `json:"account_uid"` // UID de la cuenta
	jwt.RegisteredClaims        // Claims estándar (ExpiresAt, IssuedAt...)
}

// GenerateToken crea un JWT firmado con HS256 para la cuenta indicada.
func (j *MakerImpl) GenerateToken(username, role, accountUID string) (string, error) {
	claims := CustomClaims{
		Username:   username,
		Role:       role,
		AccountUID: accountUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken verifica la firma y vigencia del token y devuelve sus claims.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

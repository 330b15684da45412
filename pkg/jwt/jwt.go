package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token. El tipo viaja en el claim "typ" para que un token de refresco
// nunca sea aceptado como token de acceso (y viceversa).
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken agrupa cualquier fallo de verificación (firma, expiración, claims).
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Subject es el ID del usuario; Role permite al middleware RBAC decidir sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "USER" | "ADMIN"
	Type  string `json:"typ"`
}

// UserID devuelve el subject del token.
func (c *Claims) UserID() string { return c.Subject }

// Generate firma un token HS256 para el usuario con la vigencia indicada.
// Cada token lleva un jti aleatorio: dos tokens emitidos en el mismo segundo nunca coinciden.
func Generate(secret, issuer, tokenType, userID, email, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  role,
		Type:  tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y comprueba que el token sea del tipo esperado.
// Cualquier fallo se devuelve envuelto en ErrInvalidToken.
func Parse(secret, tokenType, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: claims inválidos", ErrInvalidToken)
	}
	if claims.Subject == "" || claims.Type != tokenType {
		return nil, fmt.Errorf("%w: tipo o subject incorrecto", ErrInvalidToken)
	}
	return claims, nil
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mephub/mephub/internal/assert"
)

var sessionSecret []byte

// SessionClaims represents the claims carried by the session cookie token.
// The token only names a session row; authorization data lives in the database
// so that logout and role changes take effect immediately.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// InitializeSecret sets the secret used to sign session cookie tokens.
// The secret is generated on first boot and persisted in SiteConfig.
func InitializeSecret(secret string) {
	assert.Length(secret, 64)
	sessionSecret = []byte(secret)
}

// GenerateSessionToken creates a signed token referencing a session row
func GenerateSessionToken(sessionID string, expiresAt time.Time) (string, error) {
	if len(sessionSecret) == 0 {
		return "", fmt.Errorf("session secret not initialized")
	}

	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

// ValidateSessionToken validates a session cookie token and returns its claims
func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	if len(sessionSecret) == 0 {
		return nil, fmt.Errorf("session secret not initialized")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sessionSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

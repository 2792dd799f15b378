package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager signs and validates the identity tokens the API consumes.
// Token issuance lives in the registration service; this subsystem only
// needs verification, but Generate is kept for tests and tooling.
type JWTManager struct {
	secret   []byte
	duration time.Duration
}

// Claims carries the authenticated user id in the subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

func NewJWTManager(secret string, duration time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), duration: duration}
}

// Generate issues a signed token for the given user id.
func (m *JWTManager) Generate(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token and returns the user id it carries.
// It fails closed: any parse, signature, or expiry problem yields an error.
func (m *JWTManager) Verify(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	// Issuers are not guaranteed to emit lowercase UUIDs; canonicalize so
	// the id compares equal to what the store hands back.
	if u, err := uuid.Parse(claims.Subject); err == nil {
		return u.String(), nil
	}
	return claims.Subject, nil
}

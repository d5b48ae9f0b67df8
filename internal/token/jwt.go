// Package token issues and verifies the signed bearer tokens returned by the
// authentication workflow. Tokens are stateless HS256 JWTs: any holder of the
// signing secret can verify them without a round trip to the store.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/smartprep/auth-service/internal/core/domain"
	"github.com/smartprep/auth-service/internal/core/ports"
)

type customClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer implements ports.TokenIssuer. The secret is process-wide
// immutable state handed in at construction, never read from a hidden global.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer returns an issuer signing with secret; tokens expire after
// ttl. A non-positive ttl falls back to 24h.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token binding the user's identifier, username and role, with
// issued-at and expiry claims and a unique token ID.
func (j *JWTIssuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := customClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token, checks the signature, signing method and expiry,
// and returns the embedded claims.
func (j *JWTIssuer) Verify(tokenStr string) (*ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &customClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*customClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	// A foreign token signed with our key could still omit iat/exp.
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, errors.New("invalid token: missing time claims")
	}
	return &ports.TokenClaims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

package ports

import (
	"context"
	"time"

	"github.com/smartprep/auth-service/internal/core/domain"
)

// PasswordHasher produces and verifies one-way password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare returns nil when plain matches hash. The comparison is
	// resistant to timing side-channels.
	Compare(hash, plain string) error
}

// TokenClaims is the verified content of a signed token.
type TokenClaims struct {
	Subject   string
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies stateless signed tokens. Both directions use
// the same process-wide signing material injected at construction.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (*TokenClaims, error)
}

// LoginThrottle limits repeated failed logins per identifier.
type LoginThrottle interface {
	// Allow reports whether another attempt for this identifier is permitted.
	Allow(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, identifier string) error
}

package ports

import (
	"context"

	"github.com/smartprep/auth-service/internal/core/domain"
)

// UserRepository is the credential store gateway. Implementations must return
// domain.ErrUserNotFound for missing records and wrap transient I/O failures
// in domain.ErrStoreUnavailable so callers can tell the two apart.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Save inserts the user when ID is empty (assigning one) or updates the
	// existing record otherwise, returning the persisted representation.
	// Inserting a duplicate username or email returns domain.ErrUserExists.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)

	List(ctx context.Context) ([]*domain.User, error)
}

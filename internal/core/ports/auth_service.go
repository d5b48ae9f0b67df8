package ports

import (
	"context"

	"github.com/smartprep/auth-service/internal/core/domain"
)

// AuthService implements the register and login use cases.
type AuthService interface {
	Register(ctx context.Context, name, username, email, password, role string) (*domain.AuthResult, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*domain.AuthResult, error)
}

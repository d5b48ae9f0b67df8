package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartprep/auth-service/internal/api/metrics"
	"github.com/smartprep/auth-service/internal/core/domain"
	"github.com/smartprep/auth-service/internal/core/ports"
)

// AuthService implements registration and login on top of the credential
// store gateway, a password hasher, a token issuer and a login throttle.
// All dependencies are injected at construction; the service holds no
// mutable state of its own.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		throttle: throttle,
		log:      log,
	}
}

// Register creates a new account and returns its public projection together
// with a freshly issued token. A taken username or email yields
// domain.ErrUserExists; the store's unique indexes remain the authoritative
// guard against concurrent duplicates, so a duplicate-key failure on insert
// surfaces as the same error.
func (s *AuthService) Register(ctx context.Context, name, username, email, password, role string) (*domain.AuthResult, error) {
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUserExists
	}

	taken, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	user := &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		Enabled:      true,
	}

	created, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", created.Role).Msg("user registered")
	return &domain.AuthResult{User: created.Public(), Token: token}, nil
}

// Login authenticates by username or email and returns a fresh token.
//
// Every failure cause — unknown email, unknown username, wrong password,
// disabled account — collapses to domain.ErrInvalidCredentials so the
// response never reveals which step failed. When the identifier resolves to
// no user the hasher still runs against a dummy hash to keep the unknown-user
// path indistinguishable in timing from a wrong password.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.AuthResult, error) {
	ok, err := s.throttle.Allow(ctx, usernameOrEmail)
	if err != nil {
		// Throttle outages degrade open: availability wins over lockout.
		s.log.Warn().Err(err).Msg("login throttle unavailable")
	} else if !ok {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.resolveUser(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.hasher.Compare(dummyHash, password)
			s.recordFailure(ctx, usernameOrEmail)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, usernameOrEmail)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Enabled {
		s.recordFailure(ctx, usernameOrEmail)
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	updated, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(updated)
	if err != nil {
		return nil, err
	}

	if err := s.throttle.Reset(ctx, usernameOrEmail); err != nil {
		s.log.Warn().Err(err).Msg("login throttle reset failed")
	}

	s.log.Info().Str("username", updated.Username).Msg("user logged in")
	return &domain.AuthResult{User: updated.Public(), Token: token}, nil
}

// resolveUser treats identifiers containing "@" as emails. This is a
// heuristic carried over from the original workflow, not strict email
// validation: "a@b" resolves by email even though it would fail the register
// payload's format check.
func (s *AuthService) resolveUser(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	if strings.Contains(usernameOrEmail, "@") {
		return s.repo.FindByEmail(ctx, usernameOrEmail)
	}
	return s.repo.FindByUsername(ctx, usernameOrEmail)
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	start := time.Now()
	token, err := s.issuer.Issue(user)
	metrics.TokenIssueDuration.Observe(time.Since(start).Seconds())
	return token, err
}

func (s *AuthService) recordFailure(ctx context.Context, identifier string) {
	if err := s.throttle.RecordFailure(ctx, identifier); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}

// dummyHash is a bcrypt hash of a random string nobody knows. Comparing
// against it keeps the unknown-user login path on the same cost curve as the
// wrong-password path.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

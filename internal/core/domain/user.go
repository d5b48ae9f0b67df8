package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one of the enumerated capability tiers.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrStoreUnavailable = errors.New("store unavailable")
var ErrTooManyAttempts = errors.New("too many login attempts")

// User models one account in the directory.
//
// PasswordHash always holds a one-way bcrypt hash, never the plaintext, and is
// excluded from JSON. LastLogin stays nil until the first successful login.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Enabled      bool       `json:"enabled"`
}

// PublicUser is the projection returned to callers. It carries no credential
// material and no account-state internals.
type PublicUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Public returns the caller-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// AuthResult is the transient value returned by a successful register or
// login call: the public projection plus an opaque signed bearer token.
type AuthResult struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

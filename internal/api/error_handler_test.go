package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartprep/auth-service/internal/core/domain"
)

func resolve(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return resolveError(err, zerolog.Nop(), c)
}

func TestResolveError_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		code, _ := resolve(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestResolveError_WrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("insert user: %w: connection reset", domain.ErrStoreUnavailable)
	code, msg := resolve(t, wrapped)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	// The transient cause must never reach the client.
	if msg != "service temporarily unavailable" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestResolveError_EchoHTTPError(t *testing.T) {
	code, msg := resolve(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest || msg != "invalid payload" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}

func TestResolveError_UnknownError(t *testing.T) {
	code, msg := resolve(t, errors.New("bcrypt blew up"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal details leaked: %q", msg)
	}
}

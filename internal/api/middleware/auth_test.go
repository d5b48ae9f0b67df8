package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smartprep/auth-service/internal/api/handler"
	"github.com/smartprep/auth-service/internal/core/domain"
	"github.com/smartprep/auth-service/internal/core/ports"
)

type stubIssuer struct {
	claims *ports.TokenClaims
	err    error
}

func (s *stubIssuer) Issue(_ *domain.User) (string, error) { return "token", nil }

func (s *stubIssuer) Verify(_ string) (*ports.TokenClaims, error) {
	return s.claims, s.err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	issuer := &stubIssuer{claims: &ports.TokenClaims{Subject: "id-1", Username: "alice", Role: domain.RoleAdmin}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(issuer)
	h := mw(func(c echo.Context) error {
		called = true
		claims, ok := c.Get(handler.ClaimsKey).(*ports.TokenClaims)
		if !ok || claims.Username != "alice" {
			t.Fatalf("claims not injected: %+v", c.Get(handler.ClaimsKey))
		}
		if c.Get("role") != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(&stubIssuer{})
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(&stubIssuer{})
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	e := echo.New()
	issuer := &stubIssuer{err: errors.New("expired")}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(issuer)
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

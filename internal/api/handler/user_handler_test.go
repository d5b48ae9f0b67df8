package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smartprep/auth-service/internal/api/handler"
	"github.com/smartprep/auth-service/internal/core/domain"
	"github.com/smartprep/auth-service/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.Username] = user
	return user, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func withClaims(c echo.Context, claims *ports.TokenClaims) {
	c.Set(handler.ClaimsKey, claims)
}

func TestUserHandler_Me(t *testing.T) {
	e := newEcho()
	repo := newStubUserRepo(&domain.User{
		ID:           "id-1",
		Name:         "Alice A",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleUser,
		Enabled:      true,
	})
	h := handler.NewUserHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	withClaims(c, &ports.TokenClaims{Subject: "id-1", Username: "alice", Role: domain.RoleUser})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("password hash leaked in response")
	}
}

func TestUserHandler_Me_WithoutClaims(t *testing.T) {
	e := newEcho()
	h := handler.NewUserHandler(newStubUserRepo())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Me(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newEcho()
	repo := newStubUserRepo(
		&domain.User{ID: "id-1", Username: "alice", Role: domain.RoleAdmin, Enabled: true},
		&domain.User{ID: "id-2", Username: "bob", Role: domain.RoleUser, Enabled: true},
	)
	h := handler.NewUserHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
}

func TestUserHandler_SetEnabled(t *testing.T) {
	e := newEcho()
	repo := newStubUserRepo(&domain.User{ID: "id-1", Username: "alice", Enabled: true})
	h := handler.NewUserHandler(repo)

	req := httptest.NewRequest(http.MethodPatch, "/admin/users/alice/enabled", strings.NewReader(`{"enabled":false}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := h.SetEnabled(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if repo.users["alice"].Enabled {
		t.Fatalf("account should be disabled")
	}
}

func TestUserHandler_SetEnabled_UnknownUser(t *testing.T) {
	e := newEcho()
	h := handler.NewUserHandler(newStubUserRepo())

	req := httptest.NewRequest(http.MethodPatch, "/admin/users/ghost/enabled", strings.NewReader(`{"enabled":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	if err := h.SetEnabled(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// vanishingSaveRepo simulates a record deleted between lookup and write:
// the lookup succeeds but the write reports the user gone.
type vanishingSaveRepo struct {
	*stubUserRepo
}

func (r *vanishingSaveRepo) Save(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func TestUserHandler_SetEnabled_UserDeletedDuringUpdate(t *testing.T) {
	e := newEcho()
	repo := &vanishingSaveRepo{newStubUserRepo(&domain.User{ID: "id-1", Username: "alice", Enabled: true})}
	h := handler.NewUserHandler(repo)

	req := httptest.NewRequest(http.MethodPatch, "/admin/users/alice/enabled", strings.NewReader(`{"enabled":false}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := h.SetEnabled(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_SetEnabled_MissingField(t *testing.T) {
	e := newEcho()
	repo := newStubUserRepo(&domain.User{ID: "id-1", Username: "alice", Enabled: true})
	h := handler.NewUserHandler(repo)

	req := httptest.NewRequest(http.MethodPatch, "/admin/users/alice/enabled", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := h.SetEnabled(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartprep/auth-service/internal/core/domain"
	"github.com/smartprep/auth-service/internal/core/ports"
)

// UserHandler serves the authenticated-user and admin account endpoints.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the public projection of the authenticated caller.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	user, err := h.users.FindByUsername(c.Request().Context(), claims.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}

// List returns all user accounts as public projections.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PublicUser
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return c.JSON(http.StatusOK, out)
}

type setEnabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type setEnabledResponse struct {
	Username string `json:"username"`
	Enabled  bool   `json:"enabled"`
}

// SetEnabled toggles whether an account may log in. Disabled accounts fail
// login with the same response as bad credentials.
//
// @Summary      Enable or disable an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string             true  "Username"
// @Param        body      body      setEnabledRequest  true  "Target state"
// @Success      200       {object}  setEnabledResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /admin/users/{username}/enabled [patch]
func (h *UserHandler) SetEnabled(c echo.Context) error {
	var req setEnabledRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.users.FindByUsername(ctx, c.Param("username"))
	if err != nil {
		return err
	}

	user.Enabled = *req.Enabled
	updated, err := h.users.Save(ctx, user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, setEnabledResponse{
		Username: updated.Username,
		Enabled:  updated.Enabled,
	})
}

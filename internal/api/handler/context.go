package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartprep/auth-service/internal/core/ports"
)

// ClaimsKey is the echo context key under which the Auth middleware stores
// the verified token claims.
const ClaimsKey = "auth_claims"

// ctxClaims extracts the claims injected by the Auth middleware. Their
// presence proves the middleware ran; a handler reached without them is a
// wiring error and fails closed with 401.
func ctxClaims(c echo.Context) (*ports.TokenClaims, error) {
	claims, ok := c.Get(ClaimsKey).(*ports.TokenClaims)
	if !ok || claims == nil || claims.Username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

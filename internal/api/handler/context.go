package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tunewave/music-api/internal/core/ports"
)

// ctxCaller extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: user_id must be
// non-empty (presence proves the middleware ran and the token carried an
// identity).
func ctxCaller(c echo.Context) (ports.Caller, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	username, _ := c.Get("username").(string)
	roles, _ := c.Get("roles").([]string)

	return ports.Caller{UserID: userID, Username: username, Roles: roles}, nil
}

package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
)

// Auth validates the bearer token against the persisted session and injects
// the session user into context. Tokens are opaque: validity means the
// supplied string equals the stored access token and its expiry timestamp is
// still in the future.
func Auth(store ports.SessionStore, clock ports.Clock) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			ctx := c.Request().Context()
			stored, ok, err := store.Get(ctx, ports.KeyAccessToken)
			if err != nil {
				return err
			}
			if !ok || stored != parts[1] {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			rawExpiry, ok, err := store.Get(ctx, ports.KeyAccessExpiry)
			if err != nil {
				return err
			}
			millis, parseErr := strconv.ParseInt(rawExpiry, 10, 64)
			if !ok || parseErr != nil || millis <= clock.Now().UnixMilli() {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}

			rawUser, ok, err := store.Get(ctx, ports.KeyCurrentUser)
			if err != nil {
				return err
			}
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "no session user")
			}

			var user domain.User
			if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no session user")
			}

			role := user.CurrentRole
			if role == "" && len(user.Roles) > 0 {
				role = user.Roles[0]
			}

			c.Set("user", &user)
			c.Set("role", string(role))
			c.Set("access_token", parts[1])

			return next(c)
		}
	}
}

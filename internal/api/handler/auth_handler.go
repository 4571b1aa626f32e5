package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campushq/campus-admin-api/internal/api/metrics"
	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type sessionResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// Login authenticates against the seeded directory and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SessionLoginsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.SessionLoginsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		User:         result.User,
		AccessToken:  result.Session.AccessToken,
		RefreshToken: result.Session.RefreshToken,
	})
}

// Register creates a student account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, sessionResponse{
		User:         result.User,
		AccessToken:  result.Session.AccessToken,
		RefreshToken: result.Session.RefreshToken,
	})
}

// Refresh exchanges a refresh token for a fresh token pair.
//
// @Summary      Refresh the session tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Current refresh token"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.sessions.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		metrics.SessionRefreshesTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.SessionRefreshesTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	})
}

// ChangeRole switches the session's active role. Requires the Auth
// middleware, which stashes the presented access token in context.
//
// @Summary      Switch the active role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      changeRoleRequest  true  "Target role"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/role [post]
func (h *AuthHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := domain.Role(req.Role)
	if !domain.IsValidRole(role) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	accessToken, _ := c.Get("access_token").(string)
	sess, err := h.sessions.ChangeRole(c.Request().Context(), accessToken, role)
	if err != nil {
		return err
	}
	metrics.SessionRoleSwitchesTotal.WithLabelValues(req.Role).Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	})
}

// Logout closes the session. Idempotent: succeeds with no session open.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me reports the logged-in user, restoring a persisted session when the
// in-memory one is gone. Answers {"user": null} rather than an error when no
// session can be established.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.sessions.CurrentUser(c.Request().Context())
	if err != nil {
		return err
	}
	if user == nil {
		metrics.SessionLookupsTotal.WithLabelValues("none").Inc()
	} else {
		metrics.SessionLookupsTotal.WithLabelValues("user").Inc()
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

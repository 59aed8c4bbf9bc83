package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/api/metrics"
	"github.com/easescholar/scholar-platform/internal/api/middleware"
	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// AuthHandler handles login, logout and session introspection.
type AuthHandler struct {
	authService ports.AuthService
	sessionTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token      string       `json:"token"`
	User       *domain.User `json:"user"`
	RedirectTo string       `json:"redirect_to"`
}

// Login authenticates credentials, starts a session and returns a
// bearer token for API clients.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.SessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{
		Token:      result.Token,
		User:       result.User,
		RedirectTo: result.RedirectTo,
	})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountPending):
		return "pending"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	default:
		return "error"
	}
}

// Logout terminates the session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sessionID, ok := c.Get("session_id").(string); ok && sessionID != "" {
		if err := h.authService.Logout(c.Request().Context(), sessionID); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Status reports the authenticated principal.
//
// @Summary      Authentication status
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Principal
// @Failure      401  {object}  map[string]string
// @Router       /auth/status [get]
func (h *AuthHandler) Status(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

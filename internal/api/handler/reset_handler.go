package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/api/metrics"
	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// ResetHandler handles the password recovery flow.
type ResetHandler struct {
	service ports.PasswordResetService
	baseURL string
}

func NewResetHandler(service ports.PasswordResetService, baseURL string) *ResetHandler {
	return &ResetHandler{service: service, baseURL: baseURL}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// Forgot requests a reset link. The response is identical whether or
// not the email exists.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *ResetHandler) Forgot(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.Request(c.Request().Context(), req.Email, h.baseURL); err != nil {
		return err
	}
	metrics.ResetTokensIssuedTotal.Inc()

	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the email is registered, a reset link has been sent.",
	})
}

// Verify reports whether a reset token is still usable.
//
// @Summary      Verify a reset token
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Reset token"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /auth/reset-token/{token} [get]
func (h *ResetHandler) Verify(c echo.Context) error {
	if err := h.service.VerifyToken(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "valid"})
}

type resetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Reset consumes a token and sets the new password.
//
// @Summary      Reset the password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]interface{}
// @Router       /auth/reset-password [post]
func (h *ResetHandler) Reset(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return domain.NewValidationError("Passwords do not match.")
	}

	if err := h.service.Consume(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password updated. You can now log in.",
	})
}

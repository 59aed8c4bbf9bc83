package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// Details carries the full violation list for validation failures.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if ve, ok := domain.AsValidation(err); ok {
			_ = c.JSON(http.StatusBadRequest, errorResponse{
				Error:   "validation failed",
				Details: ve.Violations,
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, domain.ErrAccountPending):
		return http.StatusForbidden, "account is pending admin approval"
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, "account has been deactivated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found"
	case errors.Is(err, domain.ErrScholarshipNotFound):
		return http.StatusNotFound, "scholarship not found"
	case errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound, "application not found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrDuplicateApplication):
		return http.StatusConflict, "application already submitted"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrScholarshipInactive):
		return http.StatusUnprocessableEntity, "scholarship is not accepting applications"
	case errors.Is(err, domain.ErrDeadlinePassed):
		return http.StatusUnprocessableEntity, "application deadline has passed"
	case errors.Is(err, domain.ErrTokenNotFound):
		return http.StatusBadRequest, "invalid reset token"
	case errors.Is(err, domain.ErrTokenUsed):
		return http.StatusBadRequest, "reset token already used"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusBadRequest, "reset token expired"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

const maintenanceKey = "maintenance_mode"

// maintenanceExempt lists path prefixes that stay reachable while the
// platform is under maintenance.
var maintenanceExempt = []string{
	"/auth/login",
	"/auth/logout",
	"/auth/status",
	"/v1/admin",
	"/health",
	"/metrics",
	"/static",
}

// Maintenance blocks non-exempt traffic with 503 while the
// maintenance_mode setting reads "true". Admins pass through. A settings
// read failure fails open: availability over strictness.
func Maintenance(settings ports.SettingsRepository, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range maintenanceExempt {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			enabled, err := settings.Get(c.Request().Context(), maintenanceKey)
			if err != nil {
				logger.Warn().Err(err).Msg("maintenance flag read failed, failing open")
				return next(c)
			}
			if enabled != "true" {
				return next(c)
			}

			if p, ok := Principal(c); ok && p.Role == domain.RoleAdmin {
				return next(c)
			}

			return echo.NewHTTPError(http.StatusServiceUnavailable, "platform is under maintenance")
		}
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/api/middleware"
	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// currentPrincipal extracts the identity injected by the Auth middleware
// and fast-fails with 401 when it is absent.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}

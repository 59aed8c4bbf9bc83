package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// AdminHandler handles the admin account review and settings surface.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListPending handles GET /v1/admin/pending-approvals.
//
// @Summary      List accounts awaiting approval
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.PendingUser
// @Router       /v1/admin/pending-approvals [get]
func (h *AdminHandler) ListPending(c echo.Context) error {
	pending, err := h.service.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pending)
}

// Approve handles POST /v1/admin/users/:id/approve.
//
// @Summary      Approve a pending account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id}/approve [post]
func (h *AdminHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Approve(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "approved"})
}

type rejectRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Reject handles POST /v1/admin/users/:id/reject. The account and its
// profile are deleted.
//
// @Summary      Reject a pending account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true   "User ID"
// @Param        body  body      rejectRequest  false  "Rejection reason"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/admin/users/{id}/reject [post]
func (h *AdminHandler) Reject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req rejectRequest
	_ = c.Bind(&req) // reason is optional

	if err := h.service.Reject(c.Request().Context(), id, req.Reason); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "rejected"})
}

// ToggleActive handles POST /v1/admin/users/:id/toggle-active.
//
// @Summary      Toggle an account's active flag
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/users/{id}/toggle-active [post]
func (h *AdminHandler) ToggleActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	active, err := h.service.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_active": active})
}

// Settings handles GET /v1/admin/settings.
//
// @Summary      Read system settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /v1/admin/settings [get]
func (h *AdminHandler) Settings(c echo.Context) error {
	settings, err := h.service.Settings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

type saveSettingRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// SaveSetting handles PUT /v1/admin/settings.
//
// @Summary      Write a system setting
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveSettingRequest  true  "Setting key and value"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]interface{}
// @Router       /v1/admin/settings [put]
func (h *AdminHandler) SaveSetting(c echo.Context) error {
	var req saveSettingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.service.SaveSetting(c.Request().Context(), req.Key, req.Value); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// ScholarshipHandler handles the public scholarship catalog and the
// provider-owned management surface.
type ScholarshipHandler struct {
	service ports.ScholarshipService
}

func NewScholarshipHandler(service ports.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{service: service}
}

type scholarshipRequest struct {
	Title               string  `json:"title" validate:"required"`
	Description         string  `json:"description" validate:"required"`
	Category            string  `json:"category"`
	Amount              float64 `json:"amount" validate:"gt=0"`
	AvailableSlots      *int    `json:"available_slots,omitempty"`
	EligibilityCriteria string  `json:"eligibility_criteria" validate:"required"`
	RequiredDocuments   string  `json:"required_documents,omitempty"`
	Deadline            string  `json:"deadline" validate:"required"`
	IsActive            bool    `json:"is_active"`
}

func (r scholarshipRequest) toInput() ports.ScholarshipInput {
	return ports.ScholarshipInput{
		Title:               r.Title,
		Description:         r.Description,
		Category:            r.Category,
		Amount:              r.Amount,
		AvailableSlots:      r.AvailableSlots,
		EligibilityCriteria: r.EligibilityCriteria,
		RequiredDocuments:   r.RequiredDocuments,
		Deadline:            r.Deadline,
		IsActive:            r.IsActive,
	}
}

// ListActive handles GET /v1/scholarships — the student-facing catalog.
//
// @Summary      List active scholarships
// @Tags         scholarships
// @Produce      json
// @Success      200  {array}  domain.Scholarship
// @Router       /v1/scholarships [get]
func (h *ScholarshipHandler) ListActive(c echo.Context) error {
	list, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /v1/scholarships/:id.
//
// @Summary      Get a scholarship
// @Tags         scholarships
// @Produce      json
// @Param        id   path      int  true  "Scholarship ID"
// @Success      200  {object}  domain.Scholarship
// @Failure      404  {object}  map[string]string
// @Router       /v1/scholarships/{id} [get]
func (h *ScholarshipHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	scholarship, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, scholarship)
}

// Create handles POST /v1/provider/scholarships.
//
// @Summary      Create a scholarship
// @Tags         provider
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      scholarshipRequest  true  "Scholarship details"
// @Success      201   {object}  domain.Scholarship
// @Failure      400   {object}  map[string]interface{}
// @Router       /v1/provider/scholarships [post]
func (h *ScholarshipHandler) Create(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req scholarshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), p.UserID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /v1/provider/scholarships/:id.
//
// @Summary      Update a scholarship
// @Tags         provider
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Scholarship ID"
// @Param        body  body      scholarshipRequest  true  "Scholarship details"
// @Success      200   {object}  domain.Scholarship
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/provider/scholarships/{id} [put]
func (h *ScholarshipHandler) Update(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req scholarshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), p.UserID, id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ToggleActive handles POST /v1/provider/scholarships/:id/toggle.
//
// @Summary      Toggle a scholarship's active flag
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Scholarship ID"
// @Success      200  {object}  map[string]bool
// @Failure      403  {object}  map[string]string
// @Router       /v1/provider/scholarships/{id}/toggle [post]
func (h *ScholarshipHandler) ToggleActive(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	active, err := h.service.ToggleActive(c.Request().Context(), p.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_active": active})
}

// Delete handles DELETE /v1/provider/scholarships/:id.
//
// @Summary      Delete a scholarship
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Scholarship ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/provider/scholarships/{id} [delete]
func (h *ScholarshipHandler) Delete(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p.UserID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/provider/scholarships.
//
// @Summary      List the provider's scholarships
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Scholarship
// @Router       /v1/provider/scholarships [get]
func (h *ScholarshipHandler) ListMine(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListForProvider(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

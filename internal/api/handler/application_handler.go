package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/api/metrics"
	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// ApplicationHandler handles the student submission surface and the
// provider review surface.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type submitApplicationRequest struct {
	ScholarshipID int64                        `json:"scholarship_id" validate:"required,gt=0"`
	Essay         string                       `json:"essay,omitempty"`
	ExtraInfo     string                       `json:"extra_info,omitempty"`
	Documents     []domain.ApplicationDocument `json:"documents,omitempty"`
}

// Submit handles POST /v1/applications.
//
// @Summary      Submit an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitApplicationRequest  true  "Application details"
// @Success      201   {object}  domain.Application
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/applications [post]
func (h *ApplicationHandler) Submit(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req submitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	app, err := h.service.Submit(c.Request().Context(), ports.SubmitApplicationInput{
		UserID:        p.UserID,
		ScholarshipID: req.ScholarshipID,
		Essay:         req.Essay,
		ExtraInfo:     req.ExtraInfo,
		Documents:     req.Documents,
	})
	if err != nil {
		metrics.ApplicationsSubmittedTotal.WithLabelValues(submitResult(err)).Inc()
		return err
	}
	metrics.ApplicationsSubmittedTotal.WithLabelValues("created").Inc()

	return c.JSON(http.StatusCreated, app)
}

func submitResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateApplication):
		return "duplicate"
	case errors.Is(err, domain.ErrScholarshipInactive), errors.Is(err, domain.ErrDeadlinePassed):
		return "rejected"
	default:
		return "error"
	}
}

// UploadDocuments handles POST /v1/applications/documents — a
// pre-submission multipart batch.
//
// @Summary      Upload application documents
// @Tags         applications
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        files  formData  file  true  "Up to 5 files"
// @Success      201    {array}   domain.ApplicationDocument
// @Failure      400    {object}  map[string]interface{}
// @Router       /v1/applications/documents [post]
func (h *ApplicationHandler) UploadDocuments(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}

	var uploads []ports.ApplicationUpload
	for _, header := range form.File["files"] {
		f, err := header.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload: "+header.Filename)
		}
		defer f.Close()
		uploads = append(uploads, ports.ApplicationUpload{
			FileName: header.Filename,
			Content:  f,
		})
	}

	docs, err := h.service.UploadDocuments(c.Request().Context(), p.UserID, uploads)
	if err != nil {
		return err
	}
	for _, d := range docs {
		metrics.UploadedFileBytes.WithLabelValues(ports.DocApplication).Observe(float64(d.FileSize))
	}

	return c.JSON(http.StatusCreated, docs)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

// SetStatus handles POST /v1/provider/applications/:id/status.
//
// @Summary      Apply a review decision
// @Tags         provider
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Application ID"
// @Param        body  body      setStatusRequest  true  "New status and optional notes"
// @Success      200   {object}  domain.Application
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/provider/applications/{id}/status [post]
func (h *ApplicationHandler) SetStatus(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	app, err := h.service.SetStatus(c.Request().Context(), ports.SetStatusInput{
		UserID:        p.UserID,
		ApplicationID: id,
		Status:        domain.ApplicationStatus(req.Status),
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	metrics.ApplicationDecisionsTotal.WithLabelValues(string(app.Status)).Inc()

	return c.JSON(http.StatusOK, app)
}

// ListForProvider handles GET /v1/provider/applications.
//
// @Summary      List applications against the provider's scholarships
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Application
// @Router       /v1/provider/applications [get]
func (h *ApplicationHandler) ListForProvider(c echo.Context) error {
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

// Documents handles GET /v1/provider/applications/:id/documents.
//
// @Summary      List an application's documents
// @Tags         provider
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true  "Application ID"
// @Success      200  {array}  domain.ApplicationDocument
// @Failure      403  {object}  map[string]string
// @Router       /v1/provider/applications/{id}/documents [get]
func (h *ApplicationHandler) Documents(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	docs, err := h.service.Documents(c.Request().Context(), p.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}

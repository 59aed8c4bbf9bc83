package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/easescholar/scholar-platform/internal/api/metrics"
	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// RegistrationHandler handles the multipart account registration form.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// registrationFileSlots maps multipart field names to document kinds.
var registrationFileSlots = map[string]string{
	"cor":                   ports.UploadCOR,
	"coe":                   ports.UploadCOE,
	"transcript":            ports.UploadTranscript,
	"business_registration": ports.UploadBusinessReg,
}

// Register creates a student or provider account pending admin approval.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        role              formData  string  true   "STUDENT or PROVIDER"
// @Param        email             formData  string  true   "Email address"
// @Param        password          formData  string  true   "Password (min 6 characters)"
// @Param        confirm_password  formData  string  true   "Password confirmation"
// @Param        first_name        formData  string  true   "First name"
// @Param        last_name         formData  string  true   "Last name"
// @Param        cor               formData  file    false  "Certificate of Registration (PDF, students)"
// @Param        coe               formData  file    false  "Certificate of Enrollment (PDF, students)"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Router       /auth/register [post]
func (h *RegistrationHandler) Register(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}

	input := ports.RegisterInput{
		Role:            domain.Role(c.FormValue("role")),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
		FirstName:       c.FormValue("first_name"),
		LastName:        c.FormValue("last_name"),
		Phone:           c.FormValue("phone"),

		StudentNumber:      c.FormValue("student_number"),
		SchoolName:         c.FormValue("school_name"),
		Course:             c.FormValue("course"),
		YearLevel:          c.FormValue("year_level"),
		GPA:                c.FormValue("gpa"),
		ExpectedGraduation: c.FormValue("expected_graduation"),

		OrganizationName: c.FormValue("organization_name"),
		OrganizationType: c.FormValue("organization_type"),
		Website:          c.FormValue("website"),
		Description:      c.FormValue("description"),
	}

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for field, kind := range registrationFileSlots {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload: "+field)
		}
		opened = append(opened, f)
		input.Documents = append(input.Documents, ports.DocumentUpload{
			Kind:     kind,
			FileName: headers[0].Filename,
			Content:  f,
		})
	}

	user, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(string(input.Role), registrationResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(string(user.Role), "created").Inc()

	return c.JSON(http.StatusCreated, map[string]any{
		"user":    user,
		"message": "Registration submitted. An administrator will review your account.",
	})
}

func registrationResult(err error) string {
	if _, ok := domain.AsValidation(err); ok {
		return "rejected"
	}
	if errors.Is(err, domain.ErrEmailTaken) {
		return "rejected"
	}
	return "error"
}

package ports

import (
	"context"
	"io"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// DocumentUpload is one file attached to a registration request.
// Kind identifies the slot it fills (cor, coe, transcript,
// business_registration).
type DocumentUpload struct {
	Kind     string
	FileName string
	Content  io.Reader
}

// Registration document kinds.
const (
	UploadCOR         = "cor"
	UploadCOE         = "coe"
	UploadTranscript  = "transcript"
	UploadBusinessReg = "business_registration"
)

// RegisterInput carries the full registration request. Role-specific
// fields are ignored for the other role.
type RegisterInput struct {
	Role            domain.Role
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string

	// Student fields.
	StudentNumber      string
	SchoolName         string
	Course             string
	YearLevel          string
	GPA                string
	ExpectedGraduation string

	// Provider fields.
	OrganizationName string
	OrganizationType string
	Website          string
	Description      string

	Documents []DocumentUpload
}

// RegistrationService creates accounts pending admin approval.
type RegistrationService interface {
	// Register validates the whole input and reports every violated rule
	// at once via *domain.ValidationError. On success a user and its
	// profile exist atomically, with uploaded documents persisted.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}

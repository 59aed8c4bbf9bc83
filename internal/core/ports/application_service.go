package ports

import (
	"context"
	"io"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// SubmitApplicationInput carries a student's submission. UserID is the
// authenticated principal's user id; the student profile is resolved
// internally. Documents reference files persisted by a prior upload.
type SubmitApplicationInput struct {
	UserID        int64
	ScholarshipID int64
	Essay         string
	ExtraInfo     string
	Documents     []domain.ApplicationDocument
}

// SetStatusInput carries a provider's review decision. UserID is the
// acting provider's user id; ownership of the scholarship is verified.
type SetStatusInput struct {
	UserID        int64
	ApplicationID int64
	Status        domain.ApplicationStatus
	Notes         string
}

// ApplicationUpload is one file in a pre-submission upload batch.
type ApplicationUpload struct {
	FileName string
	Content  io.Reader
}

// ApplicationService governs the application lifecycle.
type ApplicationService interface {
	// Submit checks, in order: scholarship exists, is active, deadline
	// not passed, no prior application for the pair. On success the
	// application starts in PENDING.
	Submit(ctx context.Context, input SubmitApplicationInput) (*domain.Application, error)

	// SetStatus requires the acting provider to own the scholarship and
	// enforces PENDING → UNDER_REVIEW → {APPROVED, REJECTED}; any other
	// edge fails with domain.ErrInvalidTransition.
	SetStatus(ctx context.Context, input SetStatusInput) (*domain.Application, error)

	ListForProvider(ctx context.Context, userID int64) ([]domain.Application, error)
	// Documents returns the attachments of an application the acting
	// provider owns.
	Documents(ctx context.Context, userID, applicationID int64) ([]domain.ApplicationDocument, error)

	// UploadDocuments persists an upload batch (max 5 files) and returns
	// the stored references to attach on a later Submit.
	UploadDocuments(ctx context.Context, userID int64, files []ApplicationUpload) ([]domain.ApplicationDocument, error)
}

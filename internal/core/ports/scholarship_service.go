package ports

import (
	"context"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// ScholarshipInput carries the mutable fields of a scholarship.
type ScholarshipInput struct {
	Title               string
	Description         string
	Category            string
	Amount              float64
	AvailableSlots      *int
	EligibilityCriteria string
	RequiredDocuments   string
	Deadline            string // YYYY-MM-DD
	IsActive            bool
}

// ScholarshipService manages provider-owned scholarships and the
// student-facing read surface.
type ScholarshipService interface {
	Create(ctx context.Context, userID int64, input ScholarshipInput) (*domain.Scholarship, error)
	// Update and the operations below fail with domain.ErrForbidden when
	// the scholarship is not owned by the acting provider.
	Update(ctx context.Context, userID, scholarshipID int64, input ScholarshipInput) (*domain.Scholarship, error)
	ToggleActive(ctx context.Context, userID, scholarshipID int64) (bool, error)
	Delete(ctx context.Context, userID, scholarshipID int64) error
	ListForProvider(ctx context.Context, userID int64) ([]domain.Scholarship, error)

	// Student surface: active scholarships only.
	ListActive(ctx context.Context) ([]domain.Scholarship, error)
	Get(ctx context.Context, scholarshipID int64) (*domain.Scholarship, error)
}

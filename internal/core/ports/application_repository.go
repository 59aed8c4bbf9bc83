package ports

import (
	"context"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// ApplicationRepository defines persistence for applications and their
// attached document metadata.
type ApplicationRepository interface {
	// Create inserts the application and its document rows in one
	// transaction. Returns domain.ErrDuplicateApplication when the
	// (student, scholarship) unique index is violated.
	Create(ctx context.Context, app *domain.Application, docs []domain.ApplicationDocument) (*domain.Application, error)

	FindByID(ctx context.Context, id int64) (*domain.Application, error)
	// FindByStudentAndScholarship returns domain.ErrApplicationNotFound
	// when no application exists for the pair.
	FindByStudentAndScholarship(ctx context.Context, studentID, scholarshipID int64) (*domain.Application, error)

	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes string, reviewedAt time.Time) error

	ListByProvider(ctx context.Context, providerID int64) ([]domain.Application, error)
	Documents(ctx context.Context, applicationID int64) ([]domain.ApplicationDocument, error)
}

package ports

import (
	"context"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// ScholarshipRepository defines persistence for scholarships.
type ScholarshipRepository interface {
	Create(ctx context.Context, s *domain.Scholarship) (*domain.Scholarship, error)
	Update(ctx context.Context, s *domain.Scholarship) error
	// Delete removes the scholarship; dependent applications cascade at
	// the store.
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Scholarship, error)
	ListActive(ctx context.Context) ([]domain.Scholarship, error)
	ListByProvider(ctx context.Context, providerID int64) ([]domain.Scholarship, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

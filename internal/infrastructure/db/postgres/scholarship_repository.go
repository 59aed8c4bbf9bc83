package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// ScholarshipRepository implements ports.ScholarshipRepository.
type ScholarshipRepository struct {
	db *sql.DB
}

func NewScholarshipRepository(db *sql.DB) *ScholarshipRepository {
	return &ScholarshipRepository{db: db}
}

const scholarshipColumns = `id, provider_id, title, description, scholarship_type, amount,
       available_slots, eligibility_criteria, required_documents, deadline, is_active,
       created_at, updated_at`

func (r *ScholarshipRepository) Create(ctx context.Context, s *domain.Scholarship) (*domain.Scholarship, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `INSERT INTO scholarships (provider_id, title, description, scholarship_type, amount,
                   available_slots, eligibility_criteria, required_documents, deadline, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		s.ProviderID, s.Title, s.Description, s.Type, s.Amount,
		s.AvailableSlots, s.EligibilityCriteria, s.RequiredDocuments, s.Deadline, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, dbErr(err)
	}
	return s, nil
}

func (r *ScholarshipRepository) Update(ctx context.Context, s *domain.Scholarship) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `UPDATE scholarships
              SET title = $2, description = $3, scholarship_type = $4, amount = $5,
                  available_slots = $6, eligibility_criteria = $7, required_documents = $8,
                  deadline = $9, is_active = $10, updated_at = now()
              WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Description, s.Type, s.Amount,
		s.AvailableSlots, s.EligibilityCriteria, s.RequiredDocuments, s.Deadline, s.IsActive)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrScholarshipNotFound
	}
	return nil
}

// Delete removes the scholarship; applications cascade.
func (r *ScholarshipRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM scholarships WHERE id = $1`, id)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrScholarshipNotFound
	}
	return nil
}

func (r *ScholarshipRepository) FindByID(ctx context.Context, id int64) (*domain.Scholarship, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT ` + scholarshipColumns + ` FROM scholarships WHERE id = $1`
	s := &domain.Scholarship{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.ProviderID, &s.Title, &s.Description, &s.Type, &s.Amount,
		&s.AvailableSlots, &s.EligibilityCriteria, &s.RequiredDocuments, &s.Deadline, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScholarshipNotFound
		}
		return nil, dbErr(err)
	}
	return s, nil
}

func (r *ScholarshipRepository) ListActive(ctx context.Context) ([]domain.Scholarship, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT ` + scholarshipColumns + ` FROM scholarships
              WHERE is_active = TRUE ORDER BY deadline`
	return r.list(ctx, query)
}

func (r *ScholarshipRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Scholarship, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT ` + scholarshipColumns + ` FROM scholarships
              WHERE provider_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, providerID)
}

func (r *ScholarshipRepository) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE scholarships SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrScholarshipNotFound
	}
	return nil
}

func (r *ScholarshipRepository) list(ctx context.Context, query string, args ...any) ([]domain.Scholarship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var out []domain.Scholarship
	for rows.Next() {
		var s domain.Scholarship
		if err := rows.Scan(
			&s.ID, &s.ProviderID, &s.Title, &s.Description, &s.Type, &s.Amount,
			&s.AvailableSlots, &s.EligibilityCriteria, &s.RequiredDocuments, &s.Deadline, &s.IsActive,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, dbErr(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

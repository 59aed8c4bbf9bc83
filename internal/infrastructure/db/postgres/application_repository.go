package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/dbx"
)

// ApplicationRepository implements ports.ApplicationRepository.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, student_id, scholarship_id, status, cover_letter,
       additional_info, reviewer_notes, submitted_at, reviewed_at, created_at`

// Create inserts the application and its document rows in one
// transaction. The unique index on (student_id, scholarship_id) turns a
// concurrent double submit into ErrDuplicateApplication.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application, docs []domain.ApplicationDocument) (*domain.Application, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT INTO applications (student_id, scholarship_id, status, cover_letter,
                       additional_info, submitted_at)
                  VALUES ($1, $2, $3, $4, $5, $6)
                  RETURNING id, created_at`
		err := tx.QueryRowContext(ctx, query,
			app.StudentID, app.ScholarshipID, app.Status, app.CoverLetter,
			app.AdditionalInfo, app.SubmittedAt,
		).Scan(&app.ID, &app.CreatedAt)
		if err != nil {
			if isUniqueViolation(err, "applications_student_scholarship_key") {
				return domain.ErrDuplicateApplication
			}
			return dbErr(err)
		}

		for i := range docs {
			docs[i].ApplicationID = app.ID
			query := `INSERT INTO application_documents (application_id, document_type,
                           document_name, file_path, file_size, mime_type, uploaded_at)
                      VALUES ($1, $2, $3, $4, $5, $6, $7)
                      RETURNING id`
			d := &docs[i]
			if err := tx.QueryRowContext(ctx, query,
				d.ApplicationID, d.DocumentType, d.DocumentName, d.FilePath,
				d.FileSize, d.MimeType, d.UploadedAt,
			).Scan(&d.ID); err != nil {
				return dbErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id int64) (*domain.Application, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return scanApplication(r.db.QueryRowContext(ctx, query, id))
}

func (r *ApplicationRepository) FindByStudentAndScholarship(ctx context.Context, studentID, scholarshipID int64) (*domain.Application, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT ` + applicationColumns + ` FROM applications
              WHERE student_id = $1 AND scholarship_id = $2`
	return scanApplication(r.db.QueryRowContext(ctx, query, studentID, scholarshipID))
}

func scanApplication(row *sql.Row) (*domain.Application, error) {
	a := &domain.Application{}
	err := row.Scan(&a.ID, &a.StudentID, &a.ScholarshipID, &a.Status, &a.CoverLetter,
		&a.AdditionalInfo, &a.ReviewerNotes, &a.SubmittedAt, &a.ReviewedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, dbErr(err)
	}
	return a, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes string, reviewedAt time.Time) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $2, reviewer_notes = $3, reviewed_at = $4 WHERE id = $1`,
		id, status, notes, reviewedAt)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// ListByProvider returns every application against the provider's
// scholarships, newest first.
func (r *ApplicationRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.Application, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT a.id, a.student_id, a.scholarship_id, a.status, a.cover_letter,
                     a.additional_info, a.reviewer_notes, a.submitted_at, a.reviewed_at, a.created_at
              FROM applications a
              JOIN scholarships s ON s.id = a.scholarship_id
              WHERE s.provider_id = $1
              ORDER BY a.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ScholarshipID, &a.Status, &a.CoverLetter,
			&a.AdditionalInfo, &a.ReviewerNotes, &a.SubmittedAt, &a.ReviewedAt, &a.CreatedAt); err != nil {
			return nil, dbErr(err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ApplicationRepository) Documents(ctx context.Context, applicationID int64) ([]domain.ApplicationDocument, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT id, application_id, document_type, document_name, file_path, file_size,
                     mime_type, uploaded_at
              FROM application_documents WHERE application_id = $1 ORDER BY uploaded_at`
	rows, err := r.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var out []domain.ApplicationDocument
	for rows.Next() {
		var d domain.ApplicationDocument
		if err := rows.Scan(&d.ID, &d.ApplicationID, &d.DocumentType, &d.DocumentName,
			&d.FilePath, &d.FileSize, &d.MimeType, &d.UploadedAt); err != nil {
			return nil, dbErr(err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

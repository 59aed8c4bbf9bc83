package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

func newAppRepoWithMock(t *testing.T) (*ApplicationRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewApplicationRepository(db), mock, db
}

func TestApplicationRepository_Create_WithDocuments(t *testing.T) {
	repo, mock, db := newAppRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO applications .+ RETURNING id, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))
	mock.ExpectQuery(`INSERT INTO application_documents .+ RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	app := &domain.Application{StudentID: 1, ScholarshipID: 2, Status: domain.StatusPending, SubmittedAt: now}
	docs := []domain.ApplicationDocument{{DocumentType: "document", DocumentName: "essay.pdf"}}

	created, err := repo.Create(context.Background(), app, docs)
	require.NoError(t, err)
	require.Equal(t, int64(11), created.ID)
	require.Equal(t, int64(11), docs[0].ApplicationID)
	require.Equal(t, int64(21), docs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Create_DuplicatePair(t *testing.T) {
	repo, mock, db := newAppRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_student_scholarship_key"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(),
		&domain.Application{StudentID: 1, ScholarshipID: 2}, nil)
	require.ErrorIs(t, err, domain.ErrDuplicateApplication)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_FindByStudentAndScholarship_NotFound(t *testing.T) {
	repo, mock, db := newAppRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM applications\s+WHERE student_id = \$1 AND scholarship_id = \$2`).
		WithArgs(int64(1), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByStudentAndScholarship(context.Background(), 1, 2)
	require.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationRepository_UpdateStatus(t *testing.T) {
	repo, mock, db := newAppRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`UPDATE applications SET status = \$2`).
		WithArgs(int64(11), "UNDER_REVIEW", "looks promising", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 11, domain.StatusUnderReview, "looks promising", now)
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE applications SET status = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), 404, domain.StatusUnderReview, "", now)
	require.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestApplicationRepository_ListByProvider(t *testing.T) {
	repo, mock, db := newAppRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "scholarship_id", "status", "cover_letter",
		"additional_info", "reviewer_notes", "submitted_at", "reviewed_at", "created_at",
	}).
		AddRow(1, 10, 20, "PENDING", "", "", "", now, nil, now).
		AddRow(2, 11, 20, "UNDER_REVIEW", "", "", "", now, now, now)

	mock.ExpectQuery(`SELECT .+ FROM applications a\s+JOIN scholarships s`).
		WithArgs(int64(20)).
		WillReturnRows(rows)

	apps, err := repo.ListByProvider(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	require.Equal(t, domain.StatusUnderReview, apps[1].Status)
	require.NotNil(t, apps[1].ReviewedAt)
}

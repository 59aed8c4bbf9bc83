package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewUserRepository(db), mock, db
}

func userRows(id int64, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "first_name", "last_name", "phone",
		"is_active", "is_verified", "last_login", "created_at", "updated_at",
	}).AddRow(id, email, "hash", "STUDENT", "Ana", "Cruz", "", true, true, nil, now, now)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("a@x.com").
		WillReturnRows(userRows(7, "a@x.com"))

	u, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, domain.RoleStudent, u.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(email\)`).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_CreateStudent_Transactional(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users .+ RETURNING id, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))
	mock.ExpectQuery(`INSERT INTO students .+ RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	user := &domain.User{Email: "a@x.com", PasswordHash: "h", Role: domain.RoleStudent, IsActive: true}
	profile := &domain.StudentProfile{StudentNumber: "S-1", SchoolName: "State U"}

	created, err := repo.CreateStudent(context.Background(), user, profile)
	require.NoError(t, err)
	require.Equal(t, int64(3), created.ID)
	require.Equal(t, int64(9), profile.ID)
	require.Equal(t, int64(3), profile.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateStudent_DuplicateEmail(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})
	mock.ExpectRollback()

	_, err := repo.CreateStudent(context.Background(),
		&domain.User{Email: "a@x.com"}, &domain.StudentProfile{})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateStudent_RollsBackOnProfileError(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))
	mock.ExpectQuery(`INSERT INTO students`).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err := repo.CreateStudent(context.Background(),
		&domain.User{Email: "a@x.com"}, &domain.StudentProfile{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Approve_FlipsUserAndProvider(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET is_verified = TRUE`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE providers SET is_verified = TRUE`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Approve(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Approve_UnknownUser(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET is_verified = TRUE`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	require.ErrorIs(t, repo.Approve(context.Background(), 404), domain.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 5))

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 404), domain.ErrUserNotFound)
}

func TestUserRepository_ListPending(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "email", "role", "first_name", "last_name", "created_at",
		"organization_name", "school_name",
	}).
		AddRow(1, "s@x.com", "STUDENT", "Ana", "Cruz", now, "", "State U").
		AddRow(2, "p@x.com", "PROVIDER", "Pat", "Reyes", now, "Scholar Fund", "")

	mock.ExpectQuery(`SELECT .+ FROM users u\s+LEFT JOIN providers`).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "Ana Cruz", pending[0].FullName)
	require.Equal(t, "Scholar Fund", pending[1].Organization)
}

func TestUserRepository_StudentByUserID_NotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM students WHERE user_id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.StudentByUserID(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

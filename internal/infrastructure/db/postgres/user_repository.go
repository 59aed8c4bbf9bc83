package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
	"github.com/easescholar/scholar-platform/internal/dbx"
)

// UserRepository implements ports.UserRepository and
// ports.ProfileRepository. Multi-row writes run inside a transaction.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, role, first_name, last_name, phone,
       is_active, is_verified, last_login, created_at, updated_at`

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
		&u.Phone, &u.IsActive, &u.IsVerified, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, dbErr(err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) CreateStudent(ctx context.Context, user *domain.User, profile *domain.StudentProfile) (*domain.User, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		query := `INSERT INTO students (user_id, student_number, school_name, course, year_level,
                       gpa, expected_graduation, cor_document, coe_document, transcript_document)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                  RETURNING id`
		return tx.QueryRowContext(ctx, query,
			user.ID, profile.StudentNumber, profile.SchoolName, profile.Course, profile.YearLevel,
			profile.GPA, profile.ExpectedGraduation,
			profile.CORDocument, profile.COEDocument, profile.TranscriptDocument,
		).Scan(&profile.ID)
	})
	if err != nil {
		return nil, err
	}
	profile.UserID = user.ID
	return user, nil
}

func (r *UserRepository) CreateProvider(ctx context.Context, user *domain.User, profile *domain.ProviderProfile) (*domain.User, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		query := `INSERT INTO providers (user_id, organization_name, organization_type, website,
                       description, business_registration, is_verified)
                  VALUES ($1, $2, $3, $4, $5, $6, $7)
                  RETURNING id`
		return tx.QueryRowContext(ctx, query,
			user.ID, profile.OrganizationName, profile.OrganizationType, profile.Website,
			profile.Description, profile.BusinessRegistration, profile.IsVerified,
		).Scan(&profile.ID)
	})
	if err != nil {
		return nil, err
	}
	profile.UserID = user.ID
	return user, nil
}

func insertUser(ctx context.Context, tx dbx.DBTX, user *domain.User) error {
	query := `INSERT INTO users (email, password_hash, role, first_name, last_name, phone,
                   is_active, is_verified)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id, created_at, updated_at`
	err := tx.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Role, user.FirstName, user.LastName, user.Phone,
		user.IsActive, user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_email_lower_key") {
			return domain.ErrEmailTaken
		}
		return dbErr(err)
	}
	return nil
}

func (r *UserRepository) Approve(ctx context.Context, userID int64) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	return dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1`, userID)
		if err != nil {
			return dbErr(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrUserNotFound
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE providers SET is_verified = TRUE, updated_at = now() WHERE user_id = $1`, userID)
		if err != nil {
			return dbErr(err)
		}
		return nil
	})
}

// Delete removes the user row; profile rows cascade.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, userID, active)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = $2 WHERE id = $1`, userID, at)
	if err != nil {
		return dbErr(err)
	}
	return nil
}

func (r *UserRepository) ListPending(ctx context.Context) ([]ports.PendingUser, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT u.id, u.email, u.role, u.first_name, u.last_name, u.created_at,
                     COALESCE(p.organization_name, ''), COALESCE(s.school_name, '')
              FROM users u
              LEFT JOIN providers p ON p.user_id = u.id
              LEFT JOIN students s ON s.user_id = u.id
              WHERE u.is_verified = FALSE AND u.role <> 'ADMIN'
              ORDER BY u.created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var out []ports.PendingUser
	for rows.Next() {
		var p ports.PendingUser
		var first, last string
		if err := rows.Scan(&p.UserID, &p.Email, &p.Role, &first, &last,
			&p.RegisteredAt, &p.Organization, &p.SchoolName); err != nil {
			return nil, dbErr(err)
		}
		p.FullName = first + " " + last
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *UserRepository) StudentByUserID(ctx context.Context, userID int64) (*domain.StudentProfile, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT id, user_id, student_number, school_name, course, year_level, gpa,
                     expected_graduation, cor_document, coe_document, transcript_document,
                     created_at, updated_at
              FROM students WHERE user_id = $1`
	p := &domain.StudentProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.StudentNumber, &p.SchoolName, &p.Course, &p.YearLevel, &p.GPA,
		&p.ExpectedGraduation, &p.CORDocument, &p.COEDocument, &p.TranscriptDocument,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, dbErr(err)
	}
	return p, nil
}

func (r *UserRepository) ProviderByUserID(ctx context.Context, userID int64) (*domain.ProviderProfile, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT id, user_id, organization_name, organization_type, website, description,
                     business_registration, is_verified, created_at, updated_at
              FROM providers WHERE user_id = $1`
	p := &domain.ProviderProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.OrganizationName, &p.OrganizationType, &p.Website, &p.Description,
		&p.BusinessRegistration, &p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, dbErr(err)
	}
	return p, nil
}

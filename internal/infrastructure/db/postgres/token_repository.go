package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/dbx"
)

// ResetTokenRepository implements ports.ResetTokenRepository.
type ResetTokenRepository struct {
	db *sql.DB
}

func NewResetTokenRepository(db *sql.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, t *domain.PasswordResetToken) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `INSERT INTO password_reset_tokens (user_id, email, token, expires_at)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.Email, t.Token, t.ExpiresAt).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return dbErr(err)
	}
	return nil
}

func (r *ResetTokenRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	query := `SELECT id, user_id, email, token, expires_at, used, created_at
              FROM password_reset_tokens WHERE token = $1`
	t := &domain.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&t.ID, &t.UserID, &t.Email, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, dbErr(err)
	}
	return t, nil
}

// Consume rewrites the user's password hash and marks the token used in
// one transaction. The used guard on the update makes a concurrent
// double consume lose cleanly.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenID, userID int64, newPasswordHash string) error {
	ctx, cancel := bound(ctx)
	defer cancel()

	return dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE password_reset_tokens SET used = TRUE WHERE id = $1 AND used = FALSE`, tokenID)
		if err != nil {
			return dbErr(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrTokenUsed
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
			userID, newPasswordHash)
		if err != nil {
			return dbErr(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func (r *ResetTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := bound(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, dbErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbErr(err)
	}
	return n, nil
}

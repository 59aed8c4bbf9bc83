package ports

import (
	"context"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// ResetTokenRepository defines persistence for password reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)

	// Consume atomically updates the owning user's password hash and
	// marks the token used. Neither write may apply without the other.
	Consume(ctx context.Context, tokenID, userID int64, newPasswordHash string) error

	// DeleteExpired reaps tokens whose expiry is before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

package domain

import "time"

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = time.Hour

// PasswordResetToken is a single-use, time-boxed credential recovery
// artifact. The token value is an unguessable URL-safe string.
type PasswordResetToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token has passed its expiry at instant now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

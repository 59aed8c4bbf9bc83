package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
	"github.com/easescholar/scholar-platform/internal/pkg/passhash"
)

// PasswordResetService implements the single-use, time-boxed credential
// recovery flow.
type PasswordResetService struct {
	tokens   ports.ResetTokenRepository
	users    ports.UserRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewPasswordResetService(tokens ports.ResetTokenRepository, users ports.UserRepository, notifier ports.Notifier, logger zerolog.Logger) *PasswordResetService {
	return &PasswordResetService{tokens: tokens, users: users, notifier: notifier, logger: logger}
}

// Request mints a reset token when the email matches a user and hands
// the link to the notifier. It deliberately reveals nothing about
// whether the email exists; only store failures surface.
func (s *PasswordResetService) Request(ctx context.Context, email, baseURL string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	// Lazy reaping: stale tokens are garbage, clear them while we are
	// here anyway.
	now := time.Now().UTC()
	if n, err := s.tokens.DeleteExpired(ctx, now); err != nil {
		s.logger.Warn().Err(err).Msg("expired token cleanup failed")
	} else if n > 0 {
		s.logger.Debug().Int64("count", n).Msg("expired reset tokens reaped")
	}

	value, err := newResetToken()
	if err != nil {
		return err
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     value,
		ExpiresAt: now.Add(domain.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return err
	}

	link := strings.TrimRight(baseURL, "/") + "/reset-password/" + value
	s.notifier.SendResetLink(ctx, user.Email, link)
	return nil
}

// VerifyToken reports token validity without changing any state.
func (s *PasswordResetService) VerifyToken(ctx context.Context, token string) error {
	_, err := s.lookup(ctx, token)
	return err
}

// Consume re-validates the token, then atomically rewrites the user's
// password hash and marks the token used. An already-used or expired
// token fails with the same taxonomy as VerifyToken.
func (s *PasswordResetService) Consume(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return domain.NewValidationError("Password must be at least 6 characters long.")
	}

	t, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}

	hash, err := passhash.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.tokens.Consume(ctx, t.ID, t.UserID, hash); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", t.UserID).Msg("password reset completed")
	return nil
}

func (s *PasswordResetService) lookup(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	if token == "" {
		return nil, domain.ErrTokenNotFound
	}
	t, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.Used {
		return nil, domain.ErrTokenUsed
	}
	if t.Expired(time.Now().UTC()) {
		return nil, domain.ErrTokenExpired
	}
	return t, nil
}

// newResetToken returns a URL-safe token with 256 bits of entropy.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// AdminService implements the admin-only account approval workflow and
// system settings access.
type AdminService struct {
	users    ports.UserRepository
	settings ports.SettingsRepository
	logger   zerolog.Logger
}

func NewAdminService(users ports.UserRepository, settings ports.SettingsRepository, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, settings: settings, logger: logger}
}

func (s *AdminService) ListPending(ctx context.Context) ([]ports.PendingUser, error) {
	return s.users.ListPending(ctx)
}

// Approve moves a pending account to verified. For providers the
// profile's own verified flag flips in the same transaction.
func (s *AdminService) Approve(ctx context.Context, userID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Approve(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", userID).Str("role", string(user.Role)).Msg("user approved")
	return nil
}

// Reject hard-deletes the pending account: profile row first, then the
// user row. The reason is logged for the notification channel only.
func (s *AdminService) Reject(ctx context.Context, userID int64, reason string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().
		Int64("user_id", userID).
		Str("role", string(user.Role)).
		Str("reason", reason).
		Msg("registration rejected")
	return nil
}

// ToggleActive flips the soft-disable flag and returns the new value.
func (s *AdminService) ToggleActive(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	next := !user.IsActive
	if err := s.users.SetActive(ctx, userID, next); err != nil {
		return false, err
	}
	return next, nil
}

func (s *AdminService) Settings(ctx context.Context) (map[string]string, error) {
	return s.settings.All(ctx)
}

func (s *AdminService) SaveSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return domain.NewValidationError("setting key is required")
	}
	if err := s.settings.Set(ctx, key, value); err != nil {
		return err
	}
	s.logger.Info().Str("key", key).Str("value", value).Msg("system setting updated")
	return nil
}

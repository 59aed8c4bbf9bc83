package ports

import "context"

// AdminService covers the admin-only account lifecycle and system
// settings operations.
type AdminService interface {
	ListPending(ctx context.Context) ([]PendingUser, error)
	// Approve flips the verification flag; for providers the profile's
	// own verified flag flips in the same transaction.
	Approve(ctx context.Context, userID int64) error
	// Reject hard-deletes the account and its profile. The reason is
	// passed to the notification channel only, never persisted.
	Reject(ctx context.Context, userID int64, reason string) error
	// ToggleActive flips the soft-disable flag and returns the new value.
	ToggleActive(ctx context.Context, userID int64) (bool, error)

	Settings(ctx context.Context) (map[string]string, error)
	SaveSetting(ctx context.Context, key, value string) error
}

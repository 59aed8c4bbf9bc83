package ports

import (
	"context"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// UserRepository defines persistence for user identities and their
// role-specific profiles. Multi-row writes (user + profile, approve,
// reject) are atomic inside the implementation.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// CreateStudent inserts the user and its student profile in one
	// transaction. Returns domain.ErrEmailTaken on a duplicate email.
	CreateStudent(ctx context.Context, user *domain.User, profile *domain.StudentProfile) (*domain.User, error)
	// CreateProvider inserts the user and its provider profile in one
	// transaction. Returns domain.ErrEmailTaken on a duplicate email.
	CreateProvider(ctx context.Context, user *domain.User, profile *domain.ProviderProfile) (*domain.User, error)

	// Approve sets is_verified on the user and, for providers, on the
	// provider profile, in one transaction.
	Approve(ctx context.Context, userID int64) error
	// Delete removes the profile row first, then the user row.
	Delete(ctx context.Context, userID int64) error

	SetActive(ctx context.Context, userID int64, active bool) error
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error

	// ListPending returns unverified student/provider accounts awaiting
	// admin review.
	ListPending(ctx context.Context) ([]PendingUser, error)
}

// PendingUser is the admin review view of an unverified account.
type PendingUser struct {
	UserID       int64       `json:"user_id"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	FullName     string      `json:"full_name"`
	Organization string      `json:"organization,omitempty"`
	SchoolName   string      `json:"school_name,omitempty"`
	RegisteredAt time.Time   `json:"registered_at"`
}

// ProfileRepository resolves the role-specific profile for a user.
type ProfileRepository interface {
	StudentByUserID(ctx context.Context, userID int64) (*domain.StudentProfile, error)
	ProviderByUserID(ctx context.Context, userID int64) (*domain.ProviderProfile, error)
}

// SettingsRepository reads and writes the system_settings key/value
// table, notably the maintenance_mode flag.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

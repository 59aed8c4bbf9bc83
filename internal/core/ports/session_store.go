package ports

import (
	"context"
	"time"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// SessionStore holds login sessions keyed by opaque session ID.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, p *domain.Principal, ttl time.Duration) error
	// Get returns domain.ErrNotAuthenticated when no session exists.
	Get(ctx context.Context, sessionID string) (*domain.Principal, error)
	Delete(ctx context.Context, sessionID string) error
}

package ports

import (
	"context"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// LoginResult is returned on successful authentication. SessionID backs
// the browser cookie; Token is a signed bearer token for API clients
// carrying the same principal.
type LoginResult struct {
	SessionID  string       `json:"-"`
	Token      string       `json:"token"`
	User       *domain.User `json:"user"`
	RedirectTo string       `json:"redirect_to"`
}

// AuthService authenticates credentials and manages sessions.
type AuthService interface {
	// Login fails with domain.ErrInvalidCredentials,
	// domain.ErrAccountDisabled or domain.ErrAccountPending; it never
	// reveals which credential field was wrong.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

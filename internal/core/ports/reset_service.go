package ports

import "context"

// PasswordResetService implements the single-use, time-boxed credential
// recovery flow.
type PasswordResetService interface {
	// Request never reveals whether the email exists. When it does, a
	// token is minted and a reset link is handed to the notifier.
	// baseURL prefixes the link (e.g. "https://host").
	Request(ctx context.Context, email, baseURL string) error

	// VerifyToken returns nil for a valid token, otherwise
	// domain.ErrTokenNotFound, domain.ErrTokenUsed or
	// domain.ErrTokenExpired. Pure read.
	VerifyToken(ctx context.Context, token string) error

	// Consume re-validates like VerifyToken, then atomically updates the
	// password and marks the token used.
	Consume(ctx context.Context, token, newPassword string) error
}

// Package notify implements the outbound notification port.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier records reset links in the structured log instead of
// sending mail. Stands in until an SMTP channel is wired.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendResetLink(_ context.Context, email, link string) {
	n.logger.Info().
		Str("email", email).
		Str("link", link).
		Msg("password reset link issued")
}

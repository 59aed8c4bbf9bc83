package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/ports"
)

const defaultReapInterval = time.Hour

// TokenReaper periodically deletes expired password reset tokens so the
// table does not accumulate dead rows between reset requests.
type TokenReaper struct {
	tokens   ports.ResetTokenRepository
	interval time.Duration
	log      zerolog.Logger
}

// NewTokenReaper creates a TokenReaper. If interval <= 0,
// defaultReapInterval is used.
func NewTokenReaper(tokens ports.ResetTokenRepository, interval time.Duration, log zerolog.Logger) *TokenReaper {
	if interval <= 0 {
		interval = defaultReapInterval
	}
	return &TokenReaper{tokens: tokens, interval: interval, log: log}
}

// Start launches the reap loop. It stops when ctx is cancelled.
func (r *TokenReaper) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *TokenReaper) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

func (r *TokenReaper) reap(ctx context.Context) {
	deleted, err := r.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		r.log.Error().Err(err).Msg("reset token reap failed")
		return
	}
	if deleted > 0 {
		r.log.Info().Int64("deleted", deleted).Msg("expired reset tokens reaped")
	}
}

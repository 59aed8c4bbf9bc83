package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// SessionStore keeps login sessions in Redis.
// Key format: session:<session_id>, value is the JSON-encoded principal.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, p *domain.Principal, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns domain.ErrNotAuthenticated for a missing or expired session.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Principal, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	p := &domain.Principal{}
	if err := json.Unmarshal(payload, p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return p, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
	"github.com/easescholar/scholar-platform/internal/pkg/passhash"
)

// AuthService implements login and logout over the credential store and
// the session store.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	jwtSecret  string
	sessionTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, jwtSecret string, sessionTTL time.Duration, logger zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, jwtSecret: jwtSecret, sessionTTL: sessionTTL, logger: logger}
}

// Login authenticates the credentials and establishes a session.
// Failure reasons are limited to invalid credentials, deactivated and
// pending approval; nothing else is revealed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !passhash.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	if !user.IsVerified && user.Role != domain.RoleAdmin {
		return nil, domain.ErrAccountPending
	}

	// Best-effort: a failed last_login write is logged, never fatal.
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("last_login update failed")
	}

	principal := &domain.Principal{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		FullName: user.FullName(),
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sessionID, principal, s.sessionTTL); err != nil {
		return nil, err
	}

	token, err := s.generateToken(principal)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return &ports.LoginResult{
		SessionID:  sessionID,
		Token:      token,
		User:       user,
		RedirectTo: redirectFor(user.Role),
	}, nil
}

// Logout destroys the session. Unknown session IDs are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) generateToken(p *domain.Principal) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   p.UserID,
		"email":     p.Email,
		"role":      string(p.Role),
		"full_name": p.FullName,
		"exp":       time.Now().Add(s.sessionTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func redirectFor(role domain.Role) string {
	switch role {
	case domain.RoleStudent:
		return "/student/dashboard"
	case domain.RoleProvider:
		return "/provider/dashboard"
	case domain.RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/"
	}
}

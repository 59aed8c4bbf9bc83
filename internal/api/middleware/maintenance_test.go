package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

type fakeSettings struct {
	values map[string]string
	err    error
}

func (s *fakeSettings) Get(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[key], nil
}

func (s *fakeSettings) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *fakeSettings) All(_ context.Context) (map[string]string, error) {
	return s.values, nil
}

func runMaintenance(t *testing.T, settings *fakeSettings, path string, principal *domain.Principal) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(principalKey, principal)
	}

	handler := Maintenance(settings, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code
}

func TestMaintenance_BlocksWhenEnabled(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"maintenance_mode": "true"}}

	if code := runMaintenance(t, settings, "/v1/scholarships", nil); code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
}

func TestMaintenance_AllowsWhenDisabled(t *testing.T) {
	for _, value := range []string{"", "false", "off"} {
		settings := &fakeSettings{values: map[string]string{"maintenance_mode": value}}
		if code := runMaintenance(t, settings, "/v1/scholarships", nil); code != http.StatusOK {
			t.Fatalf("maintenance_mode=%q: expected 200, got %d", value, code)
		}
	}
}

func TestMaintenance_ExemptPaths(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"maintenance_mode": "true"}}

	for _, path := range []string{"/auth/login", "/v1/admin/pending-approvals", "/health", "/metrics"} {
		if code := runMaintenance(t, settings, path, nil); code != http.StatusOK {
			t.Fatalf("path %s must stay reachable, got %d", path, code)
		}
	}
}

func TestMaintenance_SessionIntrospectionStaysReachable(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"maintenance_mode": "true"}}

	student := &domain.Principal{UserID: 2, Role: domain.RoleStudent}
	for _, path := range []string{"/auth/status", "/auth/logout"} {
		if code := runMaintenance(t, settings, path, student); code != http.StatusOK {
			t.Fatalf("logged-in user must reach %s during maintenance, got %d", path, code)
		}
	}
}

func TestMaintenance_AdminBypass(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"maintenance_mode": "true"}}
	admin := &domain.Principal{UserID: 1, Role: domain.RoleAdmin}

	if code := runMaintenance(t, settings, "/v1/scholarships", admin); code != http.StatusOK {
		t.Fatalf("admin must bypass maintenance, got %d", code)
	}

	student := &domain.Principal{UserID: 2, Role: domain.RoleStudent}
	if code := runMaintenance(t, settings, "/v1/scholarships", student); code != http.StatusServiceUnavailable {
		t.Fatalf("student must be blocked, got %d", code)
	}
}

func TestMaintenance_FailsOpenOnSettingsError(t *testing.T) {
	settings := &fakeSettings{err: errors.New("db down")}

	if code := runMaintenance(t, settings, "/v1/scholarships", nil); code != http.StatusOK {
		t.Fatalf("settings failure must fail open, got %d", code)
	}
}

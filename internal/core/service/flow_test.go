package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// Cross-service scenarios over the same stores, covering the account
// lifecycle end to end.

func TestFlow_RegisterApproveLogin(t *testing.T) {
	users := newStubUserRepo()
	auth := NewAuthService(users, newStubSessionStore(), "secret", time.Hour, zerolog.Nop())
	registration := NewRegistrationService(users, newStubDocStore(), zerolog.Nop())
	admin := NewAdminService(users, newStubSettingsRepo(), zerolog.Nop())

	registered, err := registration.Register(context.Background(), studentInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := auth.Login(context.Background(), registered.Email, "secret1"); !errors.Is(err, domain.ErrAccountPending) {
		t.Fatalf("login before approval must be pending, got %v", err)
	}

	pending, err := admin.ListPending(context.Background())
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending account, got %v (%v)", pending, err)
	}
	if err := admin.Approve(context.Background(), pending[0].UserID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	result, err := auth.Login(context.Background(), registered.Email, "secret1")
	if err != nil {
		t.Fatalf("login after approval: %v", err)
	}
	if result.User.Role != domain.RoleStudent {
		t.Fatalf("unexpected role: %s", result.User.Role)
	}
	if result.RedirectTo != "/student/dashboard" {
		t.Fatalf("unexpected redirect: %s", result.RedirectTo)
	}
}

func TestFlow_RejectedAccountCannotLogin(t *testing.T) {
	users := newStubUserRepo()
	auth := NewAuthService(users, newStubSessionStore(), "secret", time.Hour, zerolog.Nop())
	registration := NewRegistrationService(users, newStubDocStore(), zerolog.Nop())
	admin := NewAdminService(users, newStubSettingsRepo(), zerolog.Nop())

	registered, err := registration.Register(context.Background(), providerInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := admin.Reject(context.Background(), registered.ID, "unverifiable organization"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// The account is gone, not merely disabled.
	if _, err := auth.Login(context.Background(), registered.Email, "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("login after rejection must fail as invalid credentials, got %v", err)
	}
	if _, err := users.ProviderByUserID(context.Background(), registered.ID); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("profile must be gone, got %v", err)
	}
}

func TestFlow_DeactivatedMidSession(t *testing.T) {
	users := newStubUserRepo()
	auth := NewAuthService(users, newStubSessionStore(), "secret", time.Hour, zerolog.Nop())
	admin := NewAdminService(users, newStubSettingsRepo(), zerolog.Nop())

	student := seedUser(t, users, "s@x.com", "secret1", domain.RoleStudent, true, true)

	if _, err := auth.Login(context.Background(), student.Email, "secret1"); err != nil {
		t.Fatalf("initial login: %v", err)
	}

	if _, err := admin.ToggleActive(context.Background(), student.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := auth.Login(context.Background(), student.Email, "secret1"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("login after deactivation must fail as disabled, got %v", err)
	}
}

func TestFlow_SubmitThenReview(t *testing.T) {
	users := newStubUserRepo()
	apps := newStubApplicationRepo()
	scholarships := newStubScholarshipRepo()

	scholarshipSvc := NewScholarshipService(scholarships, users, zerolog.Nop())
	applicationSvc := NewApplicationService(apps, scholarships, users, newStubDocStore(), zerolog.Nop())

	student := seedUser(t, users, "s@x.com", "secret1", domain.RoleStudent, true, true)
	provider := seedUser(t, users, "p@x.com", "secret1", domain.RoleProvider, true, true)

	created, err := scholarshipSvc.Create(context.Background(), provider.ID, scholarshipInput())
	if err != nil {
		t.Fatalf("create scholarship: %v", err)
	}

	app, err := applicationSvc.Submit(context.Background(), ports.SubmitApplicationInput{
		UserID:        student.ID,
		ScholarshipID: created.ID,
		Essay:         "dear committee",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, status := range []domain.ApplicationStatus{domain.StatusUnderReview, domain.StatusApproved} {
		if _, err := applicationSvc.SetStatus(context.Background(), ports.SetStatusInput{
			UserID:        provider.ID,
			ApplicationID: app.ID,
			Status:        status,
		}); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	final, err := apps.FindByID(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if final.Status != domain.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", final.Status)
	}

	// Terminal states accept no further edges.
	if _, err := applicationSvc.SetStatus(context.Background(), ports.SetStatusInput{
		UserID:        provider.ID,
		ApplicationID: app.ID,
		Status:        domain.StatusRejected,
	}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("APPROVED must be terminal, got %v", err)
	}
}

func TestFlow_PasswordResetThenLogin(t *testing.T) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo(users)
	notifier := &stubNotifier{}

	auth := NewAuthService(users, newStubSessionStore(), "secret", time.Hour, zerolog.Nop())
	reset := NewPasswordResetService(tokens, users, notifier, zerolog.Nop())

	seedUser(t, users, "a@x.com", "secret1", domain.RoleStudent, true, true)

	token := requestToken(t, reset, notifier, "a@x.com")
	if err := reset.Consume(context.Background(), token, "newsecret"); err != nil {
		t.Fatalf("consume: %v", err)
	}

	if _, err := auth.Login(context.Background(), "a@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must be rejected, got %v", err)
	}
	if _, err := auth.Login(context.Background(), "a@x.com", "newsecret"); err != nil {
		t.Fatalf("new password must log in: %v", err)
	}
}

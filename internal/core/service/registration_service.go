package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
	"github.com/easescholar/scholar-platform/internal/pkg/passhash"
)

const minPasswordLen = 6

// RegistrationService implements self-service signup with role-specific
// required fields and document attachments. Created accounts start
// unverified and cannot authenticate until an admin approves them.
type RegistrationService struct {
	users  ports.UserRepository
	docs   ports.DocumentStore
	logger zerolog.Logger
}

func NewRegistrationService(users ports.UserRepository, docs ports.DocumentStore, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{users: users, docs: docs, logger: logger}
}

// Register validates the whole request atomically: every violated rule
// is reported, and nothing is persisted unless all checks pass. Files
// written before a failed database transaction are deleted again.
func (s *RegistrationService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if violations := validateRegistration(input); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	// Friendlier error than the unique-index violation; the index is
	// still the authoritative guard against the race.
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := passhash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, byKind, err := s.saveDocuments(input.Documents)
	if err != nil {
		s.discard(saved)
		return nil, err
	}

	var created *domain.User
	switch input.Role {
	case domain.RoleStudent:
		profile := &domain.StudentProfile{
			StudentNumber:      strings.TrimSpace(input.StudentNumber),
			SchoolName:         strings.TrimSpace(input.SchoolName),
			Course:             strings.TrimSpace(input.Course),
			YearLevel:          strings.TrimSpace(input.YearLevel),
			GPA:                parseGPA(input.GPA),
			ExpectedGraduation: parseDate(input.ExpectedGraduation),
			CORDocument:        byKind[ports.UploadCOR],
			COEDocument:        byKind[ports.UploadCOE],
			TranscriptDocument: byKind[ports.UploadTranscript],
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		created, err = s.users.CreateStudent(ctx, user, profile)
	case domain.RoleProvider:
		profile := &domain.ProviderProfile{
			OrganizationName:     strings.TrimSpace(input.OrganizationName),
			OrganizationType:     strings.TrimSpace(input.OrganizationType),
			Website:              strings.TrimSpace(input.Website),
			Description:          strings.TrimSpace(input.Description),
			BusinessRegistration: byKind[ports.UploadBusinessReg],
			IsVerified:           false,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		created, err = s.users.CreateProvider(ctx, user, profile)
	default:
		err = domain.NewValidationError("Invalid user type selected.")
	}

	if err != nil {
		// Compensating action: the transaction failed after the files
		// were written, so remove them instead of leaving orphans.
		s.discard(saved)
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("registration created, pending approval")
	return created, nil
}

func (s *RegistrationService) saveDocuments(uploads []ports.DocumentUpload) ([]*ports.StoredFile, map[string]string, error) {
	var saved []*ports.StoredFile
	byKind := make(map[string]string, len(uploads))

	for _, up := range uploads {
		f, err := s.docs.Save(ports.DocRegistration, up.Kind, up.FileName, up.Content)
		if err != nil {
			return saved, nil, fmt.Errorf("save %s: %w", up.Kind, err)
		}
		saved = append(saved, f)
		byKind[up.Kind] = f.Name
	}
	return saved, byKind, nil
}

func (s *RegistrationService) discard(files []*ports.StoredFile) {
	for _, f := range files {
		if err := s.docs.Delete(f.Path); err != nil {
			s.logger.Warn().Err(err).Str("path", f.Path).Msg("orphaned upload cleanup failed")
		}
	}
}

func validateRegistration(input ports.RegisterInput) []string {
	var violations []string

	if input.Email == "" || input.Password == "" || input.ConfirmPassword == "" ||
		strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		violations = append(violations, "All required fields must be filled.")
	}
	if input.Password != input.ConfirmPassword {
		violations = append(violations, "Passwords do not match.")
	}
	if len(input.Password) < minPasswordLen {
		violations = append(violations, "Password must be at least 6 characters long.")
	}
	if !plausibleEmail(input.Email) {
		violations = append(violations, "Please enter a valid email address.")
	}
	if input.Role != domain.RoleStudent && input.Role != domain.RoleProvider {
		violations = append(violations, "Invalid user type selected.")
	}

	uploads := uploadsByKind(input.Documents)

	switch input.Role {
	case domain.RoleStudent:
		if strings.TrimSpace(input.StudentNumber) == "" {
			violations = append(violations, "Student number is required.")
		}
		if strings.TrimSpace(input.SchoolName) == "" {
			violations = append(violations, "School name is required.")
		}
		violations = append(violations, requirePDF(uploads, ports.UploadCOR, "Certificate of Registration (COR)")...)
		violations = append(violations, requirePDF(uploads, ports.UploadCOE, "Certificate of Enrollment (COE)")...)
	case domain.RoleProvider:
		if strings.TrimSpace(input.OrganizationName) == "" {
			violations = append(violations, "Organization name is required.")
		}
		violations = append(violations, requirePDF(uploads, ports.UploadBusinessReg, "Business registration document")...)
	}

	return violations
}

func uploadsByKind(docs []ports.DocumentUpload) map[string]ports.DocumentUpload {
	m := make(map[string]ports.DocumentUpload, len(docs))
	for _, d := range docs {
		m[d.Kind] = d
	}
	return m
}

func requirePDF(uploads map[string]ports.DocumentUpload, kind, label string) []string {
	up, ok := uploads[kind]
	if !ok || up.FileName == "" {
		return []string{label + " is required."}
	}
	if !strings.HasSuffix(strings.ToLower(up.FileName), ".pdf") {
		return []string{label + " must be a PDF."}
	}
	return nil
}

// plausibleEmail applies the minimal shape check: an @ with a dot
// somewhere after it.
func plausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

func parseGPA(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

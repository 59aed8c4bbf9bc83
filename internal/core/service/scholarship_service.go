package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

// categoryTypes maps a submitted category to a scholarship type.
var categoryTypes = map[string]domain.ScholarshipType{
	"Engineering": domain.FullScholarship,
	"Medicine":    domain.FullScholarship,
	"Science":     domain.FullScholarship,
	"Business":    domain.PartialScholarship,
	"Technology":  domain.PartialScholarship,
	"General":     domain.PartialScholarship,
}

// ScholarshipService manages provider-owned scholarships and the
// student-facing read surface.
type ScholarshipService struct {
	scholarships ports.ScholarshipRepository
	profiles     ports.ProfileRepository
	logger       zerolog.Logger
}

func NewScholarshipService(scholarships ports.ScholarshipRepository, profiles ports.ProfileRepository, logger zerolog.Logger) *ScholarshipService {
	return &ScholarshipService{scholarships: scholarships, profiles: profiles, logger: logger}
}

func (s *ScholarshipService) Create(ctx context.Context, userID int64, input ports.ScholarshipInput) (*domain.Scholarship, error) {
	provider, err := s.profiles.ProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	deadline, violations := validateScholarship(input)
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	now := time.Now().UTC()
	scholarship := &domain.Scholarship{
		ProviderID:          provider.ID,
		Title:               input.Title,
		Description:         input.Description,
		Type:                scholarshipType(input.Category),
		Amount:              input.Amount,
		AvailableSlots:      input.AvailableSlots,
		EligibilityCriteria: input.EligibilityCriteria,
		RequiredDocuments:   input.RequiredDocuments,
		Deadline:            deadline,
		IsActive:            input.IsActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.scholarships.Create(ctx, scholarship)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("scholarship_id", created.ID).Int64("provider_id", provider.ID).Msg("scholarship created")
	return created, nil
}

func (s *ScholarshipService) Update(ctx context.Context, userID, scholarshipID int64, input ports.ScholarshipInput) (*domain.Scholarship, error) {
	scholarship, err := s.owned(ctx, userID, scholarshipID)
	if err != nil {
		return nil, err
	}

	deadline, violations := validateScholarship(input)
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	scholarship.Title = input.Title
	scholarship.Description = input.Description
	scholarship.Type = scholarshipType(input.Category)
	scholarship.Amount = input.Amount
	scholarship.AvailableSlots = input.AvailableSlots
	scholarship.EligibilityCriteria = input.EligibilityCriteria
	scholarship.RequiredDocuments = input.RequiredDocuments
	scholarship.Deadline = deadline
	scholarship.IsActive = input.IsActive
	scholarship.UpdatedAt = time.Now().UTC()

	if err := s.scholarships.Update(ctx, scholarship); err != nil {
		return nil, err
	}
	return scholarship, nil
}

// ToggleActive flips the active flag and returns the new value.
func (s *ScholarshipService) ToggleActive(ctx context.Context, userID, scholarshipID int64) (bool, error) {
	scholarship, err := s.owned(ctx, userID, scholarshipID)
	if err != nil {
		return false, err
	}
	next := !scholarship.IsActive
	if err := s.scholarships.SetActive(ctx, scholarshipID, next); err != nil {
		return false, err
	}
	return next, nil
}

// Delete removes the scholarship; dependent applications cascade at the
// store level.
func (s *ScholarshipService) Delete(ctx context.Context, userID, scholarshipID int64) error {
	if _, err := s.owned(ctx, userID, scholarshipID); err != nil {
		return err
	}
	if err := s.scholarships.Delete(ctx, scholarshipID); err != nil {
		return err
	}
	s.logger.Info().Int64("scholarship_id", scholarshipID).Msg("scholarship deleted")
	return nil
}

func (s *ScholarshipService) ListForProvider(ctx context.Context, userID int64) ([]domain.Scholarship, error) {
	provider, err := s.profiles.ProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.scholarships.ListByProvider(ctx, provider.ID)
}

func (s *ScholarshipService) ListActive(ctx context.Context) ([]domain.Scholarship, error) {
	return s.scholarships.ListActive(ctx)
}

// Get returns a scholarship for the student surface; inactive offers
// are reported as not found.
func (s *ScholarshipService) Get(ctx context.Context, scholarshipID int64) (*domain.Scholarship, error) {
	scholarship, err := s.scholarships.FindByID(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}
	if !scholarship.IsActive {
		return nil, domain.ErrScholarshipNotFound
	}
	return scholarship, nil
}

func (s *ScholarshipService) owned(ctx context.Context, userID, scholarshipID int64) (*domain.Scholarship, error) {
	provider, err := s.profiles.ProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	scholarship, err := s.scholarships.FindByID(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}
	if scholarship.ProviderID != provider.ID {
		return nil, domain.ErrForbidden
	}
	return scholarship, nil
}

func validateScholarship(input ports.ScholarshipInput) (time.Time, []string) {
	var violations []string

	if input.Title == "" {
		violations = append(violations, "title is required")
	}
	if input.Description == "" {
		violations = append(violations, "description is required")
	}
	if input.Amount <= 0 {
		violations = append(violations, "amount must be greater than zero")
	}
	if input.EligibilityCriteria == "" {
		violations = append(violations, "eligibility_criteria is required")
	}

	var deadline time.Time
	if input.Deadline == "" {
		violations = append(violations, "deadline is required")
	} else {
		t, err := time.Parse("2006-01-02", input.Deadline)
		if err != nil {
			violations = append(violations, "deadline must be a YYYY-MM-DD date")
		} else {
			deadline = t
		}
	}

	return deadline, violations
}

func scholarshipType(category string) domain.ScholarshipType {
	if t, ok := categoryTypes[category]; ok {
		return t
	}
	return domain.PartialScholarship
}

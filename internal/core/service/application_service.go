package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
)

const (
	maxUploadBatch   = 5
	maxReviewerNotes = 10_000
)

// ApplicationService governs the application lifecycle from submission
// through terminal disposition.
type ApplicationService struct {
	apps         ports.ApplicationRepository
	scholarships ports.ScholarshipRepository
	profiles     ports.ProfileRepository
	docs         ports.DocumentStore
	logger       zerolog.Logger
}

func NewApplicationService(
	apps ports.ApplicationRepository,
	scholarships ports.ScholarshipRepository,
	profiles ports.ProfileRepository,
	docs ports.DocumentStore,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:         apps,
		scholarships: scholarships,
		profiles:     profiles,
		docs:         docs,
		logger:       logger,
	}
}

// Submit creates an application in PENDING. Preconditions are checked in
// order, first failure wins: scholarship exists, is active, deadline not
// passed, no prior application for the pair. The unique index on
// (student_id, scholarship_id) closes the remaining race.
func (s *ApplicationService) Submit(ctx context.Context, input ports.SubmitApplicationInput) (*domain.Application, error) {
	student, err := s.profiles.StudentByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	scholarship, err := s.scholarships.FindByID(ctx, input.ScholarshipID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !scholarship.IsActive {
		return nil, domain.ErrScholarshipInactive
	}
	if !scholarship.Deadline.After(now) {
		return nil, domain.ErrDeadlinePassed
	}

	_, err = s.apps.FindByStudentAndScholarship(ctx, student.ID, input.ScholarshipID)
	if err == nil {
		return nil, domain.ErrDuplicateApplication
	}
	if !errors.Is(err, domain.ErrApplicationNotFound) {
		return nil, err
	}

	app := &domain.Application{
		StudentID:      student.ID,
		ScholarshipID:  input.ScholarshipID,
		Status:         domain.StatusPending,
		CoverLetter:    input.Essay,
		AdditionalInfo: input.ExtraInfo,
		SubmittedAt:    now,
		CreatedAt:      now,
	}

	created, err := s.apps.Create(ctx, app, input.Documents)
	if err != nil {
		s.logger.Error().Err(err).Int64("scholarship_id", input.ScholarshipID).Msg("application submit failed")
		return nil, err
	}

	s.logger.Info().
		Int64("application_id", created.ID).
		Int64("student_id", student.ID).
		Int64("scholarship_id", input.ScholarshipID).
		Msg("application submitted")

	return created, nil
}

// SetStatus applies a review decision. The acting provider must own the
// scholarship (application → scholarship → provider → caller), and only
// PENDING → UNDER_REVIEW → {APPROVED, REJECTED} edges are legal.
func (s *ApplicationService) SetStatus(ctx context.Context, input ports.SetStatusInput) (*domain.Application, error) {
	if !domain.ValidStatus(input.Status) {
		return nil, domain.NewValidationError("invalid status")
	}
	if len(input.Notes) > maxReviewerNotes {
		return nil, domain.NewValidationError(fmt.Sprintf("reviewer notes must not exceed %d characters", maxReviewerNotes))
	}

	app, err := s.ownedApplication(ctx, input.UserID, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanTransitionTo(input.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, app.Status, input.Status)
	}

	now := time.Now().UTC()
	if err := s.apps.UpdateStatus(ctx, app.ID, input.Status, input.Notes, now); err != nil {
		return nil, err
	}

	app.Status = input.Status
	app.ReviewerNotes = input.Notes
	app.ReviewedAt = &now

	s.logger.Info().
		Int64("application_id", app.ID).
		Str("status", string(input.Status)).
		Msg("application status updated")

	return app, nil
}

func (s *ApplicationService) ListForProvider(ctx context.Context, userID int64) ([]domain.Application, error) {
	provider, err := s.profiles.ProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.apps.ListByProvider(ctx, provider.ID)
}

// Documents returns the attachments of an application owned by the
// acting provider.
func (s *ApplicationService) Documents(ctx context.Context, userID, applicationID int64) ([]domain.ApplicationDocument, error) {
	app, err := s.ownedApplication(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}
	return s.apps.Documents(ctx, app.ID)
}

// UploadDocuments persists a pre-submission batch and returns metadata
// to attach on a later Submit. File bytes land in the document store
// before any application row exists.
func (s *ApplicationService) UploadDocuments(ctx context.Context, userID int64, files []ports.ApplicationUpload) ([]domain.ApplicationDocument, error) {
	if len(files) == 0 {
		return nil, domain.NewValidationError("no files provided")
	}
	if len(files) > maxUploadBatch {
		return nil, domain.NewValidationError(fmt.Sprintf("at most %d files per upload", maxUploadBatch))
	}

	student, err := s.profiles.StudentByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("app_%d", student.ID)
	out := make([]domain.ApplicationDocument, 0, len(files))
	for _, f := range files {
		stored, err := s.docs.Save(ports.DocApplication, prefix, f.FileName, f.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ApplicationDocument{
			DocumentType: "document",
			DocumentName: f.FileName,
			FilePath:     stored.Path,
			FileSize:     stored.Size,
			MimeType:     stored.MimeType,
			UploadedAt:   time.Now().UTC(),
		})
	}
	return out, nil
}

func (s *ApplicationService) ownedApplication(ctx context.Context, userID, applicationID int64) (*domain.Application, error) {
	provider, err := s.profiles.ProviderByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	scholarship, err := s.scholarships.FindByID(ctx, app.ScholarshipID)
	if err != nil {
		return nil, err
	}
	if scholarship.ProviderID != provider.ID {
		return nil, domain.ErrForbidden
	}
	return app, nil
}

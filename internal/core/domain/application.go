package domain

import "time"

// ApplicationStatus represents the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "PENDING"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
)

// validTransitions defines the allowed state machine transitions.
// APPROVED and REJECTED are terminal.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:     {StatusUnderReview},
	StatusUnderReview: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether a transition from the current status
// to next is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application links one student to one scholarship. At most one
// application may exist per (student, scholarship) pair, enforced by a
// unique index at the store.
type Application struct {
	ID             int64             `json:"id"`
	StudentID      int64             `json:"student_id"`
	ScholarshipID  int64             `json:"scholarship_id"`
	Status         ApplicationStatus `json:"status"`
	CoverLetter    string            `json:"cover_letter,omitempty"`
	AdditionalInfo string            `json:"additional_info,omitempty"`
	ReviewerNotes  string            `json:"reviewer_notes,omitempty"`
	SubmittedAt    time.Time         `json:"submitted_at"`
	ReviewedAt     *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ApplicationDocument records metadata for a file attached to an
// application. The bytes live in the file store; only the reference is
// kept here.
type ApplicationDocument struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	DocumentType  string    `json:"document_type"`
	DocumentName  string    `json:"document_name"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

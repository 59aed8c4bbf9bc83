package domain

import "time"

// ScholarshipType categorizes the funding coverage of an offer.
type ScholarshipType string

const (
	FullScholarship    ScholarshipType = "FULL_SCHOLARSHIP"
	PartialScholarship ScholarshipType = "PARTIAL_SCHOLARSHIP"
)

// Scholarship is a funding offer owned by exactly one provider.
// Only the owning provider may mutate or delete it; deletion cascades
// to dependent applications at the store level.
type Scholarship struct {
	ID                  int64           `json:"id"`
	ProviderID          int64           `json:"provider_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Type                ScholarshipType `json:"scholarship_type"`
	Amount              float64         `json:"amount"`
	AvailableSlots      *int            `json:"available_slots,omitempty"`
	EligibilityCriteria string          `json:"eligibility_criteria"`
	RequiredDocuments   string          `json:"required_documents,omitempty"`
	Deadline            time.Time       `json:"application_deadline"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// AcceptsApplications reports whether a submission at instant now would
// pass the active and deadline preconditions.
func (s *Scholarship) AcceptsApplications(now time.Time) bool {
	return s.IsActive && s.Deadline.After(now)
}

package domain

import "time"

// Role identifies the account type of a user.
type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleStudent || r == RoleProvider || r == RoleAdmin
}

// User models an authenticated actor in the system. Email is unique
// case-insensitively. IsVerified starts false for students and providers
// and is flipped by an admin approval; admins are created verified.
// A user with IsActive=false can never authenticate.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsVerified   bool       `json:"is_verified"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName returns the display name used in sessions.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// StudentProfile is the 1:1 extension of a User with role STUDENT,
// created in the same transaction as the user row.
type StudentProfile struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	StudentNumber      string     `json:"student_number"`
	SchoolName         string     `json:"school_name"`
	Course             string     `json:"course,omitempty"`
	YearLevel          string     `json:"year_level,omitempty"`
	GPA                *float64   `json:"gpa,omitempty"`
	ExpectedGraduation *time.Time `json:"expected_graduation,omitempty"`
	// Opaque file-store references; contents are never interpreted here.
	CORDocument        string    `json:"cor_document,omitempty"`
	COEDocument        string    `json:"coe_document,omitempty"`
	TranscriptDocument string    `json:"transcript_document,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ProviderProfile is the 1:1 extension of a User with role PROVIDER.
// It carries its own verified flag, flipped together with the user's
// on admin approval.
type ProviderProfile struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	OrganizationName     string    `json:"organization_name"`
	OrganizationType     string    `json:"organization_type,omitempty"`
	Website              string    `json:"website,omitempty"`
	Description          string    `json:"description,omitempty"`
	BusinessRegistration string    `json:"business_registration,omitempty"`
	IsVerified           bool      `json:"is_verified"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Principal is the identity established at login and trusted for the
// lifetime of the session.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name"`
}

package domain

import (
	"errors"
	"strings"
)

// Authentication failures. Login distinguishes only these three reasons;
// it never reveals which credential field was wrong.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("registration pending approval")
	ErrAccountDisabled    = errors.New("account deactivated")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Authorization and lookup failures.
var (
	ErrForbidden           = errors.New("access forbidden")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrScholarshipNotFound = errors.New("scholarship not found")
	ErrApplicationNotFound = errors.New("application not found")
)

// Conflicts and state machine violations.
var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrDuplicateApplication = errors.New("application already submitted")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// Application submission preconditions.
var (
	ErrScholarshipInactive = errors.New("scholarship is not active")
	ErrDeadlinePassed      = errors.New("application deadline has passed")
)

// Password reset token failures.
var (
	ErrTokenNotFound = errors.New("invalid reset token")
	ErrTokenUsed     = errors.New("reset token already used")
	ErrTokenExpired  = errors.New("reset token expired")
)

// ErrStoreUnavailable marks transient store failures that are safe to
// retry. Repositories wrap connection-class driver failures and query
// deadline expiry with it; anything else stays a plain internal error.
var ErrStoreUnavailable = errors.New("store unavailable")

// ValidationError carries the complete list of violated rules for a
// request, not just the first one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from violation messages.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

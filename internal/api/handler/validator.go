package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/easescholar/scholar-platform/internal/core/domain"
)

// requestValidator backs echo's c.Validate with go-playground/validator.
// Violations come back as a domain.ValidationError carrying the full
// list, the same shape the workflow services report, so the error
// handler renders one envelope for both layers.
type requestValidator struct {
	v *validator.Validate
}

func NewValidator() *requestValidator {
	return &requestValidator{v: validator.New()}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	violations := make([]string, 0, len(ve))
	for _, fe := range ve {
		violations = append(violations, violation(fe))
	}
	return domain.NewValidationError(violations...)
}

// violation renders one failed rule the way the registration flow words
// its messages.
func violation(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

package validate

import (
	"regexp"
	"strings"
	"time"

	"tripdesk/internal/domain"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldError is a recoverable, field-scoped validation failure. It is
// resolved where it is raised and never advances the booking step.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Contact validates the booking form contact shape. Returns one error per
// failing field so the caller can surface them next to the inputs.
func Contact(c domain.Contact) []FieldError {
	var errs []FieldError

	if len(strings.TrimSpace(c.Name)) < 2 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at least 2 characters"})
	}

	if !emailRe.MatchString(strings.TrimSpace(c.Email)) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email address"})
	}

	if !ContactPhone(c.Phone) {
		errs = append(errs, FieldError{Field: "phone", Message: "invalid phone number"})
	}

	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "date must be YYYY-MM-DD"})
		}
	}

	return errs
}

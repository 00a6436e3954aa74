package lead

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// Minimal local@domain.tld shape; full RFC 5322 validation is deliberately
// out of scope.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidationError reports the first field that failed validation, with a
// message safe to return to the caller.
type ValidationError struct {
	Field   string
	Missing bool
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("Invalid %s", e.Field)
}

// Validate checks that every required field is present and well-formed. It is
// pure and deterministic; the phone digit count is checked after stripping
// punctuation, so "(555) 123-4567" passes.
func Validate(s Submission) error {
	required := []struct {
		field string
		value string
	}{
		{"fullName", s.FullName},
		{"dob", s.DOB},
		{"phone", s.Phone},
		{"email", s.Email},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"zip", s.Zip},
		{"proofToken", s.ProofToken},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Missing: true}
		}
	}

	if n := len(digitsOnly(s.Phone)); n < minPhoneDigits || n > maxPhoneDigits {
		return &ValidationError{Field: "phone"}
	}

	if !emailPattern.MatchString(strings.TrimSpace(s.Email)) {
		return &ValidationError{Field: "email"}
	}

	return nil
}

// Package lead defines the submission schema and the pure validation and
// normalization steps of the intake pipeline.
package lead

import (
	"strings"
	"time"
)

// DefaultSource is recorded when a submission carries no source tag.
const DefaultSource = "landing_page"

// Submission is the untrusted request body of a landing-page form post.
type Submission struct {
	FullName   string `json:"fullName"`
	DOB        string `json:"dob"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	ProofToken string `json:"proofToken"`
	Source     string `json:"source,omitempty"`
}

// Lead is the canonical, fit-to-persist form of a submission. It is only
// constructed after validation and CAPTCHA verification have both passed.
type Lead struct {
	FullName    string
	DOB         string
	Phone       string
	Email       string
	Address     string
	City        string
	State       string
	Zip         string
	Source      string
	Identity    string
	SubmittedAt time.Time
}

// Normalize canonicalizes a validated submission: text fields trimmed, email
// lowercased, phone and zip reduced to digits, source defaulted, requester
// identity and submission time attached. It is total and idempotent.
func Normalize(s Submission, identity string, now time.Time) *Lead {
	source := strings.TrimSpace(s.Source)
	if source == "" {
		source = DefaultSource
	}

	return &Lead{
		FullName:    strings.TrimSpace(s.FullName),
		DOB:         strings.TrimSpace(s.DOB),
		Phone:       digitsOnly(s.Phone),
		Email:       strings.ToLower(strings.TrimSpace(s.Email)),
		Address:     strings.TrimSpace(s.Address),
		City:        strings.TrimSpace(s.City),
		State:       strings.TrimSpace(s.State),
		Zip:         digitsOnly(s.Zip),
		Source:      source,
		Identity:    identity,
		SubmittedAt: now,
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

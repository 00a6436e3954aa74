package intake

import (
	"fmt"
	"net/http"
)

// RejectKind categorizes why the pipeline refused a submission.
type RejectKind string

const (
	// RejectMethodNotAllowed indicates a request with the wrong HTTP method.
	RejectMethodNotAllowed RejectKind = "method_not_allowed"

	// RejectRateLimited indicates the identity exceeded the sliding window.
	RejectRateLimited RejectKind = "rate_limited"

	// RejectInvalidInput indicates a missing or malformed field.
	RejectInvalidInput RejectKind = "invalid_input"

	// RejectCaptchaFailed indicates the provider refused the proof token.
	RejectCaptchaFailed RejectKind = "captcha_failed"

	// RejectVerificationUnavailable indicates the verification call itself
	// errored. Callers see the same response as RejectCaptchaFailed; the
	// distinction exists for operator diagnostics only.
	RejectVerificationUnavailable RejectKind = "verification_unavailable"

	// RejectPersistFailed indicates the store write failed. Surfaced as an
	// opaque server error; backing-store detail stays in the logs.
	RejectPersistFailed RejectKind = "persist_failed"
)

// PipelineError is a terminal rejection from one of the pipeline stages.
// Message is safe to return to the caller; Err carries operator detail.
type PipelineError struct {
	Kind    RejectKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode maps the rejection kind to a response status.
func (e *PipelineError) HTTPStatusCode() int {
	switch e.Kind {
	case RejectMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case RejectRateLimited:
		return http.StatusTooManyRequests
	case RejectInvalidInput, RejectCaptchaFailed, RejectVerificationUnavailable:
		return http.StatusBadRequest
	case RejectPersistFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Package intake implements the lead submission pipeline: method gate, rate
// limit, validation, CAPTCHA verification, normalization and persistence,
// composed in strict sequence with the first failure short-circuiting the
// rest.
package intake

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"leadgate/internal/captcha"
	"leadgate/internal/lead"
	"leadgate/internal/ratelimit"
	"leadgate/internal/server"
	"leadgate/internal/storage"
)

// Handler serves POST /api/submit-lead.
type Handler struct {
	limiter  ratelimit.Limiter
	verifier captcha.Verifier
	store    storage.LeadStore
	now      func() time.Time
}

// HandlerOption configures the handler.
type HandlerOption func(*Handler)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler wires the pipeline's collaborators together.
func NewHandler(limiter ratelimit.Limiter, verifier captcha.Verifier, store storage.LeadStore, opts ...HandlerOption) *Handler {
	h := &Handler{
		limiter:  limiter,
		verifier: verifier,
		store:    store,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// HandleSubmitLead runs the full pipeline for one submission.
func (h *Handler) HandleSubmitLead(w http.ResponseWriter, r *http.Request) {
	logger := slog.Default()
	requestID := server.GetRequestID(r.Context())

	accepted, rejection := h.process(r)
	if rejection != nil {
		server.AddError(r.Context(), rejection)
		server.AddLogField(r.Context(), "reject_kind", string(rejection.Kind))

		// Persistence and verification-transport failures carry backing
		// detail that must not reach the caller; log it here instead.
		if rejection.Err != nil {
			logger.Error("lead submission rejected",
				slog.String("request_id", requestID),
				slog.String("kind", string(rejection.Kind)),
				slog.String("error", rejection.Err.Error()),
			)
		}

		writeJSON(w, rejection.HTTPStatusCode(), errorResponse{Error: rejection.Message})
		return
	}

	logger.Info("lead saved",
		slog.String("request_id", requestID),
		slog.String("email", accepted.Email),
		slog.String("source", accepted.Source),
	)

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// process runs the stages in order and returns either the persisted lead or
// the first rejection. No stage runs after a rejection.
func (h *Handler) process(r *http.Request) (*lead.Lead, *PipelineError) {
	// Stage 1: request gate. The wrong method never touches a rate bucket.
	if r.Method != http.MethodPost {
		return nil, &PipelineError{Kind: RejectMethodNotAllowed, Message: "Method not allowed"}
	}

	identity := server.ClientIP(r)
	if !h.limiter.Allow(identity, h.now()) {
		return nil, &PipelineError{Kind: RejectRateLimited, Message: "Too many requests"}
	}

	// Stage 2: validation.
	var sub lead.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		return nil, &PipelineError{Kind: RejectInvalidInput, Message: "Invalid request body", Err: err}
	}

	if err := lead.Validate(sub); err != nil {
		return nil, &PipelineError{Kind: RejectInvalidInput, Message: err.Error()}
	}

	// Stage 3: human verification. Completes before anything is normalized
	// or persisted; an unreachable provider rejects rather than passes.
	result, err := h.verifier.Verify(r.Context(), sub.ProofToken, identity)
	if err != nil {
		return nil, &PipelineError{Kind: RejectVerificationUnavailable, Message: "CAPTCHA validation failed", Err: err}
	}
	if !result.Success {
		return nil, &PipelineError{
			Kind:    RejectCaptchaFailed,
			Message: "CAPTCHA validation failed",
			Err:     fmt.Errorf("provider rejected token: %v", result.ErrorCodes),
		}
	}

	// Stage 4: normalization. Only reached with a validated, verified
	// submission, so the result is always fit to persist.
	normalized := lead.Normalize(sub, identity, h.now())

	// Stage 5: persistence. Single attempt, no compensation on failure.
	if err := h.store.CreateLead(r.Context(), normalized); err != nil {
		return nil, &PipelineError{Kind: RejectPersistFailed, Message: "Internal Server Error", Err: err}
	}

	return normalized, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

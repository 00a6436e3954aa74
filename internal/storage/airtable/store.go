// Package airtable persists leads to an Airtable base over its REST API.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadgate/internal/lead"
	"leadgate/internal/storage"
)

const defaultBaseURL = "https://api.airtable.com"

// StoreOption configures the store.
type StoreOption func(*Store)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(baseURL string) StoreOption {
	return func(s *Store) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) StoreOption {
	return func(s *Store) {
		s.httpClient = httpClient
	}
}

// Store is the Airtable implementation of storage.LeadStore.
type Store struct {
	apiKey     string
	baseID     string
	table      string
	baseURL    string
	httpClient *http.Client
}

var _ storage.LeadStore = (*Store)(nil)

// New creates an Airtable store writing to the given base and table.
func New(apiKey, baseID, table string, opts ...StoreOption) *Store {
	s := &Store{
		apiKey:     apiKey,
		baseID:     baseID,
		table:      table,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type createRequest struct {
	Records []record `json:"records"`
}

type record struct {
	Fields map[string]any `json:"fields"`
}

// CreateLead writes one record using the canonical field mapping documented
// in package storage. Single attempt; any failure is returned to the caller.
func (s *Store) CreateLead(ctx context.Context, l *lead.Lead) error {
	payload := createRequest{
		Records: []record{{
			Fields: map[string]any{
				"Full Name": l.FullName,
				"DOB":       l.DOB,
				"Phone":     l.Phone,
				"Email":     l.Email,
				"Address":   l.Address,
				"City":      l.City,
				"State":     l.State,
				"ZIP":       l.Zip,
				"Source":    l.Source,
				"IP":        l.Identity,
				"Timestamp": l.SubmittedAt.Format(time.RFC3339),
				"Status":    storage.StatusNewLead,
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v0/%s/%s", s.baseURL, s.baseID, url.PathEscape(s.table))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("create record request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("airtable error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

func (s *Store) Close() error {
	return nil
}

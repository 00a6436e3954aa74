package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadgate/internal/lead"
	"leadgate/internal/testutil"
)

func testLead() *lead.Lead {
	return &lead.Lead{
		FullName:    "Jane Doe",
		DOB:         "1990-01-01",
		Phone:       "5551234567",
		Email:       "jane@example.com",
		Address:     "1 Main St",
		City:        "Metropolis",
		State:       "NY",
		Zip:         "10001",
		Source:      "landing_page",
		Identity:    "203.0.113.7",
		SubmittedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_CreateLead_VCR(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "airtable_create_lead")
	defer cleanup()

	store := New("test-key", "appVCRBASE", "Leads",
		WithHTTPClient(testutil.VCRHTTPClient(r)))

	if err := store.CreateLead(context.Background(), testLead()); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
}

func TestStore_CreateLead_FieldMapping(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody struct {
		Records []struct {
			Fields map[string]any `json:"fields"`
		} `json:"records"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[{"id":"rec123"}]}`))
	}))
	defer srv.Close()

	store := New("secret-key", "appBASE", "Leads", WithBaseURL(srv.URL))

	if err := store.CreateLead(context.Background(), testLead()); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	if gotPath != "/v0/appBASE/Leads" {
		t.Errorf("path = %q, want /v0/appBASE/Leads", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("authorization = %q, want Bearer secret-key", gotAuth)
	}
	if len(gotBody.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(gotBody.Records))
	}

	fields := gotBody.Records[0].Fields
	want := map[string]string{
		"Full Name": "Jane Doe",
		"DOB":       "1990-01-01",
		"Phone":     "5551234567",
		"Email":     "jane@example.com",
		"Address":   "1 Main St",
		"City":      "Metropolis",
		"State":     "NY",
		"ZIP":       "10001",
		"Source":    "landing_page",
		"IP":        "203.0.113.7",
		"Timestamp": "2024-06-01T12:00:00Z",
		"Status":    "new_lead",
	}
	for name, value := range want {
		if fields[name] != value {
			t.Errorf("field %q = %v, want %q", name, fields[name], value)
		}
	}
	if len(fields) != len(want) {
		t.Errorf("field count = %d, want %d", len(fields), len(want))
	}
}

func TestStore_CreateLead_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"INVALID_PERMISSIONS"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	store := New("bad-key", "appBASE", "Leads", WithBaseURL(srv.URL))

	if err := store.CreateLead(context.Background(), testLead()); err == nil {
		t.Error("CreateLead() error = nil, want error on 403")
	}
}

func TestStore_CreateLead_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	store := New("key", "appBASE", "Leads", WithBaseURL(srv.URL))

	if err := store.CreateLead(context.Background(), testLead()); err == nil {
		t.Error("CreateLead() error = nil, want connection error")
	}
}

func TestStore_CreateLead_TableNameEscaped(t *testing.T) {
	var gotEscapedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEscapedPath = r.URL.EscapedPath()
		w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	store := New("key", "appBASE", "Raw Leads", WithBaseURL(srv.URL))

	if err := store.CreateLead(context.Background(), testLead()); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	if gotEscapedPath != "/v0/appBASE/Raw%20Leads" {
		t.Errorf("path = %q, want /v0/appBASE/Raw%%20Leads", gotEscapedPath)
	}
}

// Package memory is an in-memory lead store used by tests and local
// development.
package memory

import (
	"context"
	"sync"

	"leadgate/internal/lead"
	"leadgate/internal/storage"
)

// Store is an in-memory implementation of storage.LeadStore.
type Store struct {
	mu    sync.RWMutex
	leads []*lead.Lead
}

var _ storage.LeadStore = (*Store)(nil)

// New creates a new in-memory store
func New() *Store {
	return &Store{}
}

func (s *Store) CreateLead(ctx context.Context, l *lead.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *l
	s.leads = append(s.leads, &copied)
	return nil
}

// Leads returns a snapshot of everything persisted so far.
func (s *Store) Leads() []*lead.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*lead.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *Store) Close() error {
	return nil
}

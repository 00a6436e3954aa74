// Package sqlite persists leads to a local SQLite database, for
// single-instance deployments that do not use Airtable.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"leadgate/internal/lead"
	"leadgate/internal/storage"
)

// Store is the SQLite implementation of storage.LeadStore.
type Store struct {
	db *sql.DB
}

var _ storage.LeadStore = (*Store)(nil)

// New opens (or creates) the database at dbPath and ensures the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		dob TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zip TEXT NOT NULL,
		source TEXT NOT NULL,
		ip TEXT NOT NULL,
		submitted_at TIMESTAMP NOT NULL,
		status TEXT NOT NULL
	)`)
	return err
}

// CreateLead inserts one row following the canonical field mapping from
// package storage.
func (s *Store) CreateLead(ctx context.Context, l *lead.Lead) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, full_name, dob, phone, email, address, city, state, zip, source, ip, submitted_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), l.FullName, l.DOB, l.Phone, l.Email, l.Address,
		l.City, l.State, l.Zip, l.Source, l.Identity,
		l.SubmittedAt.Format(time.RFC3339), storage.StatusNewLead)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

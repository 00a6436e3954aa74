// Package storage defines the lead persistence contract shared by the
// Airtable, SQLite and in-memory adapters.
//
// The canonical field mapping to the external "Leads" table is fixed here and
// must not vary per deployment:
//
//	FullName    -> Full Name
//	DOB         -> DOB
//	Phone       -> Phone
//	Email       -> Email
//	Address     -> Address
//	City        -> City
//	State       -> State
//	Zip         -> ZIP
//	Source      -> Source
//	Identity    -> IP
//	SubmittedAt -> Timestamp (RFC 3339)
//	(constant)  -> Status
package storage

import (
	"context"

	"leadgate/internal/lead"
)

// StatusNewLead is written to the Status column of every persisted lead.
const StatusNewLead = "new_lead"

// LeadStore persists normalized leads. The pipeline makes a single attempt
// per request; implementations must not retry internally.
type LeadStore interface {
	CreateLead(ctx context.Context, l *lead.Lead) error
	Close() error
}

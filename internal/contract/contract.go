// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/okrpulse/okrpulse/schema"
)

// SnapshotSource defines how raw goal-tracking records reach the engine.
// Fetching from the platform, with its pagination and retries, belongs to an
// external collaborator; the engine only consumes what that collaborator
// wrote. This allows the core logic to be tested without real snapshot files.
type SnapshotSource interface {
	// Load reads the snapshot at the given path.
	Load(ctx context.Context, path string) (*schema.Snapshot, error)
}

// StoreManager defines the interface for managing the report history store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetReportStore() ReportStore
}

// ReportStore defines the interface for tracking report runs and storing
// per-user results.
type ReportStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, snapshotPath string, asOf time.Time) (int64, error)

	// EndRun updates the report run with completion data and headline figures
	EndRun(rec schema.ReportRunRecord) error

	// RecordUserResult stores one user's shift, risk and score figures
	RecordUserResult(rec schema.UserResultRecord) error

	// GetLastRun returns the most recently completed run, or nil when none exists
	GetLastRun() (*schema.ReportRunRecord, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllUserResults returns every recorded user result, oldest run first
	GetAllUserResults() ([]schema.UserResultRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.StoreStatus, error)

	// Clear removes all recorded runs and user results
	Clear() error

	// Close closes the underlying connection
	Close() error
}

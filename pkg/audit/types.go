package audit

import (
	"context"
	"time"
)

// Record is one ExecutionOutcome: what happened to a single candidate entry.
type Record struct {
	// ID is a UUID v4 assigned when the record is appended.
	ID string `json:"id"`

	// RunID identifies the run (log segment) this record belongs to.
	RunID string `json:"run_id"`

	// Path is the entry's path.
	Path string `json:"path"`

	// Fingerprint is the hex BLAKE3 hash of the entry's content at decision
	// time. Together with Path it keys idempotence checks.
	Fingerprint string `json:"fingerprint"`

	// Action is the resolved action ("keep", "delete", "compress",
	// "archive", "delete-after-archive").
	Action string `json:"action"`

	// Simulated marks dry-run records: the action that would have been
	// taken, with no mutation performed.
	Simulated bool `json:"simulated"`

	// Success reports whether the action completed.
	Success bool `json:"success"`

	// ErrorKind classifies a failure ("storage_io", "archive_verification",
	// "approval_required", …). Empty on success.
	ErrorKind string `json:"error_kind,omitempty"`

	// Error is the failure detail. Empty on success.
	Error string `json:"error,omitempty"`

	// BytesAffected is the byte count the action freed or relocated.
	BytesAffected int64 `json:"bytes_affected"`

	// Categories lists the matched categories, sorted.
	Categories []string `json:"categories,omitempty"`

	// DecisionReason explains why the action was chosen.
	DecisionReason string `json:"decision_reason,omitempty"`

	// ArchiveDestination is where the content went for archive actions.
	ArchiveDestination string `json:"archive_destination,omitempty"`

	// Timestamp is when the outcome was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// Query defines filter parameters for reading back audit records.
type Query struct {
	// RunID filters to one log segment.
	RunID string `json:"run_id,omitempty"`

	// Path filters to one entry path.
	Path string `json:"path,omitempty"`

	// Fingerprint filters to one content fingerprint.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Action filters by resolved action.
	Action string `json:"action,omitempty"`

	// Success filters by outcome when non-nil.
	Success *bool `json:"success,omitempty"`

	// Simulated filters dry-run records when non-nil.
	Simulated *bool `json:"simulated,omitempty"`

	// StartTime and EndTime bound the record timestamp, inclusive.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Limit caps the number of records returned; Offset skips records.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Storage is an append-only audit sink. Implementations must be safe for
// concurrent appends; the engine serializes appends per run but queries may
// race with writes.
type Storage interface {
	// Append persists a record. The engine treats a failure here as fatal
	// for the run.
	Append(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, oldest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Close releases resources held by the backend.
	Close() error
}

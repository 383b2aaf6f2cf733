package ledger

import (
	"context"
	"time"
)

// Entry records one completed action.
type Entry struct {
	// Path is the entry's path at the time the action ran.
	Path string

	// Fingerprint is the hex BLAKE3 hash of the content the action was
	// applied to.
	Fingerprint string

	// Action is the completed action ("delete", "compress", "archive",
	// "delete-after-archive").
	Action string

	// RunID is the run that completed the action.
	RunID string

	// CompletedAt is when the action completed.
	CompletedAt time.Time
}

// Store is the completed-action index.
type Store interface {
	// Completed reports whether the action already completed for this
	// path and content fingerprint.
	Completed(ctx context.Context, path, fingerprint, action string) (bool, error)

	// MarkCompleted records a completed action, replacing any previous
	// completion for the same key.
	MarkCompleted(ctx context.Context, e Entry) error

	// Close releases resources held by the store.
	Close() error
}

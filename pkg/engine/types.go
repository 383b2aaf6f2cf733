package engine

import (
	"time"

	"renderhq/janus/pkg/rules"
)

// Action is the resolved disposition for a candidate entry.
type Action string

const (
	// ActionKeep leaves the entry untouched.
	ActionKeep Action = "keep"

	// ActionDelete removes the entry from primary storage.
	ActionDelete Action = "delete"

	// ActionCompress replaces the entry with a verified compressed copy.
	ActionCompress Action = "compress"

	// ActionArchive copies the entry to cold storage and, once the copy
	// verifies, deletes the source. Full success is recorded as
	// ActionDeleteAfterArchive.
	ActionArchive Action = "archive"

	// ActionDeleteAfterArchive is the recorded outcome of a fully completed
	// archive: durable verified copy plus source deletion.
	ActionDeleteAfterArchive Action = "delete-after-archive"
)

// EntryState tracks an entry through the execution state machine:
// Pending -> Simulated | Applying -> Succeeded | Failed.
type EntryState string

const (
	StatePending   EntryState = "pending"
	StateSimulated EntryState = "simulated"
	StateApplying  EntryState = "applying"
	StateSucceeded EntryState = "succeeded"
	StateFailed    EntryState = "failed"
)

// Decision reasons recorded on outcomes.
const (
	// ReasonNoRule marks entries kept because no rule matched.
	ReasonNoRule = "no_matching_rule"

	// ReasonRetentionActive marks entries still inside a retention window.
	ReasonRetentionActive = "retention_active"

	// ReasonRequiresApproval marks irreversible-category entries kept
	// because no approval token was supplied.
	ReasonRequiresApproval = "requires_approval"

	// ReasonExpired marks entries past every defined retention window.
	ReasonExpired = "retention_expired"

	// ReasonAlreadyCompleted marks entries skipped because the ledger shows
	// the same action already completed for the same content.
	ReasonAlreadyCompleted = "already_completed"
)

// Error kinds recorded on failed outcomes.
const (
	ErrKindStorageIO            = "storage_io"
	ErrKindArchiveVerification  = "archive_verification"
	ErrKindCompressVerification = "compress_verification"
)

// CandidateEntry is one classified file in a run's inventory. It is created
// by the walker, annotated by the resolver, and read-only afterwards. The
// inventory lives for one run and is never persisted.
type CandidateEntry struct {
	// Path is the absolute path of the entry.
	Path string

	// RelPath is the slash-separated path relative to the run root, the
	// form rules match against.
	RelPath string

	// SizeBytes is the entry's size at walk time.
	SizeBytes int64

	// ModifiedAt is the entry's last-modification time.
	ModifiedAt time.Time

	// Categories is the multi-label classification. Never empty: unmatched
	// paths are not inventoried.
	Categories rules.CategorySet

	// AgeDays is derived from ModifiedAt at run start, clamped to >= 0.
	AgeDays int

	// ResolvedAction is the action the resolver chose.
	ResolvedAction Action

	// DecisionReason explains the choice.
	DecisionReason string

	// State is the entry's position in the execution state machine.
	State EntryState
}

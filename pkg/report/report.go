package report

import (
	"fmt"
	"time"

	"renderhq/janus/pkg/audit"
)

// Report is the aggregate result of one cleanup run. It is immutable after
// construction and owned by the caller.
type Report struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// DryRun marks simulated runs.
	DryRun bool `json:"dry_run"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// EntriesExamined is the number of candidate entries processed.
	EntriesExamined int `json:"entries_examined"`

	// FilesRemoved counts delete and delete-after-archive outcomes.
	FilesRemoved int `json:"files_removed"`

	// FilesArchived counts archive and delete-after-archive outcomes.
	FilesArchived int `json:"files_archived"`

	// FilesCompressed counts compress outcomes.
	FilesCompressed int `json:"files_compressed"`

	// FilesKept counts keep outcomes.
	FilesKept int `json:"files_kept"`

	// BytesSaved is the bytes freed from primary storage by deletions only.
	BytesSaved int64 `json:"bytes_saved"`

	// BytesArchived is the bytes relocated to cold storage.
	BytesArchived int64 `json:"bytes_archived"`

	// ErrorsCount counts failed outcomes.
	ErrorsCount int `json:"errors_count"`

	// Failed lists every failed outcome with its error kind and path.
	Failed []*audit.Record `json:"failed,omitempty"`

	// Outcomes is the ordered list of all outcomes for the run.
	Outcomes []*audit.Record `json:"outcomes"`

	// UsageBefore and UsageAfter are optional storage snapshots.
	UsageBefore *Usage `json:"usage_before,omitempty"`
	UsageAfter  *Usage `json:"usage_after,omitempty"`
}

// Build aggregates the ordered outcome list into a Report.
func Build(runID string, dryRun bool, startedAt, finishedAt time.Time, outcomes []*audit.Record) *Report {
	r := &Report{
		RunID:      runID,
		DryRun:     dryRun,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Outcomes:   outcomes,
	}

	for _, o := range outcomes {
		r.EntriesExamined++

		if !o.Success {
			r.ErrorsCount++
			r.Failed = append(r.Failed, o)
			continue
		}

		switch o.Action {
		case "keep":
			r.FilesKept++
		case "delete":
			r.FilesRemoved++
			r.BytesSaved += o.BytesAffected
		case "compress":
			r.FilesCompressed++
		case "archive":
			r.FilesArchived++
			r.BytesArchived += o.BytesAffected
		case "delete-after-archive":
			// Both halves count: the bytes went to cold storage and were
			// freed from primary storage.
			r.FilesArchived++
			r.FilesRemoved++
			r.BytesArchived += o.BytesAffected
			r.BytesSaved += o.BytesAffected
		}
	}
	return r
}

// Summary returns a one-line human-readable summary.
func (r *Report) Summary() string {
	mode := "applied"
	if r.DryRun {
		mode = "simulated"
	}
	return fmt.Sprintf("%s: %d examined, %d removed, %d archived, %d compressed, %d kept, %s freed, %d errors",
		mode, r.EntriesExamined, r.FilesRemoved, r.FilesArchived, r.FilesCompressed,
		r.FilesKept, FormatBytes(r.BytesSaved), r.ErrorsCount)
}

// FormatBytes renders a byte count in human-readable units.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	for _, unit := range []string{"KB", "MB", "GB", "TB"} {
		v /= 1024
		if v < 1024 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
	}
	return fmt.Sprintf("%.2f PB", v/1024)
}

package notify

import (
	"context"
	"log/slog"

	"renderhq/janus/pkg/report"
)

// Severity classifies a notification.
type Severity string

const (
	// SeverityInfo marks a run that completed with zero failed outcomes.
	SeverityInfo Severity = "info"

	// SeverityError marks a run with failed outcomes or a fatal abort.
	SeverityError Severity = "error"
)

// Notifier receives a run report. Implementations deliver it to a channel
// (log, email, chat); errors are reported to the caller but the caller must
// not treat them as run failures.
type Notifier interface {
	// Notify delivers the report with the given severity.
	Notify(ctx context.Context, severity Severity, r *report.Report) error
}

// LogNotifier writes run summaries to the structured log. It is the default
// channel and the fallback when no external channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{
		logger: slog.Default().With("component", "notify.log"),
	}
}

// Notify writes the report summary at a level matching the severity.
func (n *LogNotifier) Notify(ctx context.Context, severity Severity, r *report.Report) error {
	attrs := []any{
		"run_id", r.RunID,
		"dry_run", r.DryRun,
		"files_removed", r.FilesRemoved,
		"files_archived", r.FilesArchived,
		"files_compressed", r.FilesCompressed,
		"bytes_saved", r.BytesSaved,
		"errors", r.ErrorsCount,
	}
	if severity == SeverityError {
		n.logger.Error("cleanup run finished with failures", attrs...)
	} else {
		n.logger.Info("cleanup run finished", attrs...)
	}
	return nil
}

// Multi fans a notification out to several channels. Every channel is tried;
// the first error is returned after all deliveries are attempted.
type Multi struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewMulti creates a fan-out notifier.
func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{
		notifiers: notifiers,
		logger:    slog.Default().With("component", "notify.multi"),
	}
}

// Notify delivers to every channel.
func (m *Multi) Notify(ctx context.Context, severity Severity, r *report.Report) error {
	var first error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, severity, r); err != nil {
			m.logger.Warn("notification delivery failed", "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"renderhq/janus/pkg/audit"
	"renderhq/janus/pkg/ledger"
	"renderhq/janus/pkg/storage"
)

// Executor applies resolved actions with the safety gates: dry-run
// simulation, verified two-phase archive, secure delete without silent
// fallback, ledger-based idempotence, and an audit append for every outcome.
//
// Entries are applied by a bounded worker pool. Each path appears at most
// once in a run's inventory, so per-path serialization holds by
// construction; audit appends go through a single mutex-guarded writer.
type Executor struct {
	backend      storage.Backend
	archiver     storage.Archiver
	auditStore   audit.Storage
	ledgerStore  ledger.Store
	codec        storage.Codec
	secureDelete bool
	dryRun       bool
	runID        string
	workers      int
	retry        RetryPolicy
	logger       *slog.Logger

	auditMu sync.Mutex
}

// ExecutorConfig assembles an Executor for one run.
type ExecutorConfig struct {
	Backend      storage.Backend
	Archiver     storage.Archiver // nil when archiving is disabled
	AuditStore   audit.Storage
	LedgerStore  ledger.Store
	Codec        storage.Codec
	SecureDelete bool
	DryRun       bool
	RunID        string
	Workers      int
	Retry        RetryPolicy
}

// NewExecutor creates an executor for one run.
func NewExecutor(cfg ExecutorConfig) *Executor {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	retry := cfg.Retry
	if retry.Retryable == nil {
		retry.Retryable = retryableStorageError
	}
	return &Executor{
		backend:      cfg.Backend,
		archiver:     cfg.Archiver,
		auditStore:   cfg.AuditStore,
		ledgerStore:  cfg.LedgerStore,
		codec:        cfg.Codec,
		secureDelete: cfg.SecureDelete,
		dryRun:       cfg.DryRun,
		runID:        cfg.RunID,
		workers:      workers,
		retry:        retry,
		logger:       slog.Default().With("component", "engine.executor"),
	}
}

// retryableStorageError reports whether a storage failure is worth retrying.
// Verification mismatches are deterministic and never retried.
func retryableStorageError(err error) bool {
	var verr *storage.VerificationError
	return !errors.As(err, &verr)
}

// Execute applies every entry's resolved action and returns the outcome
// records in walk order. Per-entry failures are recorded and the run
// continues; only an audit append failure aborts, since destructive actions
// must not proceed unlogged. Cancellation is honored between entries: work
// already in flight runs to completion or documented failure.
func (e *Executor) Execute(ctx context.Context, entries []*CandidateEntry) ([]*audit.Record, error) {
	results := make([]*audit.Record, len(entries))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fatalMu sync.Mutex
	var fatal error
	setFatal := func(err error) {
		fatalMu.Lock()
		if fatal == nil {
			fatal = err
		}
		fatalMu.Unlock()
		cancel()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if runCtx.Err() != nil {
					return
				}
				record := e.process(runCtx, entries[idx])
				results[idx] = record

				// Completed work is logged even when the run is being
				// cancelled; the append must not inherit the cancellation.
				e.auditMu.Lock()
				err := e.auditStore.Append(context.WithoutCancel(runCtx), record)
				e.auditMu.Unlock()
				if err != nil {
					setFatal(fmt.Errorf("audit append for %s: %w", entries[idx].Path, err))
					return
				}
			}
		}()
	}

	for idx := range entries {
		select {
		case jobs <- idx:
		case <-runCtx.Done():
		}
		if runCtx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	fatalMu.Lock()
	defer fatalMu.Unlock()
	if fatal != nil {
		return nil, fatal
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Entries never handed to a worker (cancelled mid-run) stay out of the
	// outcome list.
	out := make([]*audit.Record, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// process runs one entry through the state machine and returns its outcome.
func (e *Executor) process(ctx context.Context, entry *CandidateEntry) *audit.Record {
	record := &audit.Record{
		RunID:          e.runID,
		Path:           entry.Path,
		Action:         string(entry.ResolvedAction),
		Simulated:      e.dryRun,
		DecisionReason: entry.DecisionReason,
	}
	for _, c := range entry.Categories.Sorted() {
		record.Categories = append(record.Categories, string(c))
	}

	if entry.ResolvedAction == ActionKeep {
		entry.State = StateSucceeded
		if e.dryRun {
			entry.State = StateSimulated
		}
		record.Success = true
		return record
	}

	if e.dryRun {
		entry.State = StateSimulated
		record.Success = true
		record.BytesAffected = entry.SizeBytes
		return record
	}

	entry.State = StateApplying

	fingerprint, _, err := storage.FingerprintFile(entry.Path)
	if err != nil {
		return e.fail(entry, record, ErrKindStorageIO, err)
	}
	record.Fingerprint = fingerprint

	done, err := e.ledgerStore.Completed(ctx, entry.Path, fingerprint, string(entry.ResolvedAction))
	if err != nil {
		e.logger.Warn("ledger lookup failed, assuming not completed",
			"path", entry.Path, "error", err)
	}
	if done {
		entry.State = StateSucceeded
		record.Action = string(ActionKeep)
		record.DecisionReason = ReasonAlreadyCompleted
		record.Success = true
		return record
	}

	switch entry.ResolvedAction {
	case ActionDelete:
		err = e.applyDelete(ctx, entry, record)
	case ActionCompress:
		err = e.applyCompress(ctx, entry, record)
	case ActionArchive:
		err = e.applyArchive(ctx, entry, record)
	}
	if err != nil {
		return record
	}

	entry.State = StateSucceeded
	record.Success = true
	e.markCompleted(ctx, entry, fingerprint)
	return record
}

func (e *Executor) applyDelete(ctx context.Context, entry *CandidateEntry, record *audit.Record) error {
	if err := e.retry.Do(ctx, func() error {
		return e.deleteSource(ctx, entry.Path)
	}); err != nil {
		e.fail(entry, record, ErrKindStorageIO, err)
		return err
	}
	record.BytesAffected = entry.SizeBytes
	return nil
}

func (e *Executor) applyCompress(ctx context.Context, entry *CandidateEntry, record *audit.Record) error {
	var result storage.CompressResult
	err := e.retry.Do(ctx, func() error {
		var opErr error
		result, opErr = storage.CompressFile(ctx, e.backend, entry.Path, e.codec)
		return opErr
	})
	if err != nil {
		kind := ErrKindStorageIO
		var verr *storage.VerificationError
		if errors.As(err, &verr) {
			kind = ErrKindCompressVerification
		}
		e.fail(entry, record, kind, err)
		return err
	}

	// The verified compressed copy exists; the source is now redundant.
	if err := e.retry.Do(ctx, func() error {
		return e.deleteSource(ctx, entry.Path)
	}); err != nil {
		e.fail(entry, record, ErrKindStorageIO, err)
		return err
	}

	record.BytesAffected = result.OriginalBytes - result.CompressedBytes
	return nil
}

// applyArchive is the two-phase archive: the source is deleted only after the
// archiver's receipt verified against the source content. A verification
// mismatch leaves the source untouched and fails the entry; it never proceeds
// to delete.
func (e *Executor) applyArchive(ctx context.Context, entry *CandidateEntry, record *audit.Record) error {
	var receipt storage.WriteReceipt
	err := e.retry.Do(ctx, func() error {
		var opErr error
		receipt, opErr = e.archiver.Store(ctx, entry.Path)
		return opErr
	})
	if err != nil {
		kind := ErrKindStorageIO
		var verr *storage.VerificationError
		if errors.As(err, &verr) {
			kind = ErrKindArchiveVerification
		}
		e.fail(entry, record, kind, err)
		return err
	}
	record.ArchiveDestination = receipt.Destination

	if err := e.retry.Do(ctx, func() error {
		return e.deleteSource(ctx, entry.Path)
	}); err != nil {
		e.fail(entry, record, ErrKindStorageIO, err)
		return err
	}

	record.Action = string(ActionDeleteAfterArchive)
	record.BytesAffected = entry.SizeBytes
	return nil
}

// deleteSource removes a file, securely when the run demands it. A failed
// secure overwrite fails the delete; there is no silent fallback to a plain
// unlink.
func (e *Executor) deleteSource(ctx context.Context, path string) error {
	if e.secureDelete {
		return e.backend.SecureDelete(ctx, path)
	}
	return e.backend.Delete(ctx, path)
}

func (e *Executor) fail(entry *CandidateEntry, record *audit.Record, kind string, err error) *audit.Record {
	entry.State = StateFailed
	record.Success = false
	record.ErrorKind = kind
	record.Error = err.Error()
	e.logger.Error("action failed",
		"path", entry.Path,
		"action", record.Action,
		"error_kind", kind,
		"error", err,
	)
	return record
}

func (e *Executor) markCompleted(ctx context.Context, entry *CandidateEntry, fingerprint string) {
	err := e.ledgerStore.MarkCompleted(ctx, ledger.Entry{
		Path:        entry.Path,
		Fingerprint: fingerprint,
		Action:      string(entry.ResolvedAction),
		RunID:       e.runID,
	})
	if err != nil {
		// The audit log is the durable record; the ledger is a rebuildable
		// index, so a failed mark is logged and tolerated.
		e.logger.Warn("failed to mark action completed", "path", entry.Path, "error", err)
	}
}

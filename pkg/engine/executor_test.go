package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"renderhq/janus/pkg/audit"
	"renderhq/janus/pkg/ledger"
	"renderhq/janus/pkg/rules"
	"renderhq/janus/pkg/storage"
)

func testExecutor(t *testing.T, mutate func(*ExecutorConfig)) (*Executor, *audit.MemoryStorage, *ledger.MemoryStore) {
	t.Helper()
	auditStore := audit.NewMemoryStorage()
	ledgerStore := ledger.NewMemoryStore()
	cfg := ExecutorConfig{
		Backend:     storage.NewLocal(),
		AuditStore:  auditStore,
		LedgerStore: ledgerStore,
		Codec:       storage.CodecZstd,
		RunID:       "run-test",
		Workers:     2,
		Retry:       RetryPolicy{Attempts: 1, BaseBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewExecutor(cfg), auditStore, ledgerStore
}

func deleteEntry(path string, size int64) *CandidateEntry {
	return &CandidateEntry{
		Path:           path,
		RelPath:        path,
		SizeBytes:      size,
		Categories:     catSet(rules.CategoryTemp),
		ResolvedAction: ActionDelete,
		DecisionReason: ReasonExpired,
		State:          StatePending,
	}
}

// verificationFailingArchiver always reports a mismatch, as a cold-storage
// target with a corrupting transport would.
type verificationFailingArchiver struct{}

func (verificationFailingArchiver) Store(ctx context.Context, src string) (storage.WriteReceipt, error) {
	return storage.WriteReceipt{}, &storage.VerificationError{
		Path:            src,
		WantFingerprint: "aa",
		GotFingerprint:  "bb",
	}
}

// TestExecute_ArchiveVerificationFailure tests the two-phase safety: a
// verification mismatch fails the entry and the source survives.
func TestExecute_ArchiveVerificationFailure(t *testing.T) {
	root := t.TempDir()
	src := writeAged(t, root, "a.tmp", 100, 10)

	exec, _, _ := testExecutor(t, func(cfg *ExecutorConfig) {
		cfg.Archiver = verificationFailingArchiver{}
	})

	entry := deleteEntry(src, 100)
	entry.ResolvedAction = ActionArchive

	records, err := exec.Execute(context.Background(), []*CandidateEntry{entry})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.Success {
		t.Error("verification failure recorded as success")
	}
	if r.ErrorKind != ErrKindArchiveVerification {
		t.Errorf("ErrorKind = %q, want %q", r.ErrorKind, ErrKindArchiveVerification)
	}
	if !exists(src) {
		t.Error("source deleted despite failed verification")
	}
	if entry.State != StateFailed {
		t.Errorf("entry state = %s, want failed", entry.State)
	}
}

// failingAuditStorage rejects every append.
type failingAuditStorage struct {
	audit.Storage
}

func (f failingAuditStorage) Append(ctx context.Context, record *audit.Record) error {
	return errors.New("disk full")
}

// TestExecute_AuditWriteFailureIsFatal tests that a failed audit append
// aborts the run.
func TestExecute_AuditWriteFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	src := writeAged(t, root, "a.tmp", 100, 10)

	exec, _, _ := testExecutor(t, func(cfg *ExecutorConfig) {
		cfg.AuditStore = failingAuditStorage{}
	})

	_, err := exec.Execute(context.Background(), []*CandidateEntry{deleteEntry(src, 100)})
	if err == nil {
		t.Fatal("Execute() succeeded despite audit write failures")
	}
}

// TestExecute_LedgerSkip tests that a completed action is not repeated for
// the same path and content.
func TestExecute_LedgerSkip(t *testing.T) {
	root := t.TempDir()
	src := writeAged(t, root, "a.tmp", 100, 10)

	fp, _, err := storage.FingerprintFile(src)
	if err != nil {
		t.Fatalf("FingerprintFile() failed: %v", err)
	}

	exec, _, ledgerStore := testExecutor(t, nil)
	err = ledgerStore.MarkCompleted(context.Background(), ledger.Entry{
		Path: src, Fingerprint: fp, Action: "delete", RunID: "earlier-run",
	})
	if err != nil {
		t.Fatalf("MarkCompleted() failed: %v", err)
	}

	records, err := exec.Execute(context.Background(), []*CandidateEntry{deleteEntry(src, 100)})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	r := records[0]
	if r.Action != "keep" || r.DecisionReason != ReasonAlreadyCompleted {
		t.Errorf("outcome = %s/%s, want keep/already_completed", r.Action, r.DecisionReason)
	}
	if r.BytesAffected != 0 {
		t.Errorf("BytesAffected = %d, want 0 (no double counting)", r.BytesAffected)
	}
	if !exists(src) {
		t.Error("skipped entry was deleted anyway")
	}
}

// TestExecute_PartialFailure tests that one bad entry does not block the
// rest of the inventory.
func TestExecute_PartialFailure(t *testing.T) {
	root := t.TempDir()
	good := writeAged(t, root, "good.tmp", 100, 10)
	missing := root + "/never-existed.tmp"

	exec, _, _ := testExecutor(t, nil)
	records, err := exec.Execute(context.Background(), []*CandidateEntry{
		deleteEntry(missing, 50),
		deleteEntry(good, 100),
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if records[0].Success {
		t.Error("action on a missing file recorded as success")
	}
	if records[0].ErrorKind != ErrKindStorageIO {
		t.Errorf("ErrorKind = %q, want %q", records[0].ErrorKind, ErrKindStorageIO)
	}
	if !records[1].Success {
		t.Errorf("good entry failed: %s", records[1].Error)
	}
	if exists(good) {
		t.Error("good entry not deleted")
	}
}

// TestExecute_MarksLedger tests that a completed delete lands in the ledger.
func TestExecute_MarksLedger(t *testing.T) {
	root := t.TempDir()
	src := writeAged(t, root, "a.tmp", 100, 10)
	fp, _, err := storage.FingerprintFile(src)
	if err != nil {
		t.Fatalf("FingerprintFile() failed: %v", err)
	}

	exec, _, ledgerStore := testExecutor(t, nil)
	if _, err := exec.Execute(context.Background(), []*CandidateEntry{deleteEntry(src, 100)}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	done, err := ledgerStore.Completed(context.Background(), src, fp, "delete")
	if err != nil {
		t.Fatalf("Completed() failed: %v", err)
	}
	if !done {
		t.Error("completed delete not recorded in the ledger")
	}
}

// TestRetryPolicy tests the bounded backoff helper.
func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{Attempts: 3, BaseBackoff: time.Millisecond, MaxBackoff: 4 * time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Do() failed after eventual success: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	calls = 0
	err = p.Do(context.Background(), func() error {
		calls++
		return errors.New("permanent-ish")
	})
	if err == nil {
		t.Error("Do() succeeded with an always-failing operation")
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (1 try + 3 retries)", calls)
	}

	p.Retryable = func(error) bool { return false }
	calls = 0
	if err := p.Do(context.Background(), func() error { calls++; return errors.New("fatal") }); err == nil {
		t.Error("Do() swallowed a non-retryable error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for a non-retryable error", calls)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Do(cancelled, func() error { return nil }); err == nil {
		t.Error("Do() ignored a cancelled context")
	}
}

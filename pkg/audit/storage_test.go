package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// backends returns every Storage implementation under test.
func backends(t *testing.T) map[string]Storage {
	t.Helper()

	sqlite, err := NewSQLiteStorage(&SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "audit.db"),
		MaxOpenConns: 2,
		WALMode:      true,
		BusyTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func sampleRecords(runID string) []*Record {
	now := time.Now()
	return []*Record{
		{
			RunID:         runID,
			Path:          "/renders/shot01_scratch.tmp",
			Fingerprint:   "aaa",
			Action:        "delete",
			Success:       true,
			BytesAffected: 1024,
			Categories:    []string{"temp"},
			Timestamp:     now.Add(-2 * time.Second),
		},
		{
			RunID:       runID,
			Path:        "/renders/shot01_backup.bak",
			Fingerprint: "bbb",
			Action:      "keep",
			Success:     true,
			Categories:  []string{"backup"},
			DecisionReason: "requires_approval",
			Timestamp:   now.Add(-time.Second),
		},
		{
			RunID:       runID,
			Path:        "/renders/beauty.exr",
			Fingerprint: "ccc",
			Action:      "archive",
			Success:     false,
			ErrorKind:   "archive_verification",
			Error:       "fingerprint mismatch",
			Timestamp:   now,
		},
	}
}

// TestStorage_AppendAndQuery tests round-tripping records through each
// backend.
func TestStorage_AppendAndQuery(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, r := range sampleRecords("run-1") {
				if err := store.Append(ctx, r); err != nil {
					t.Fatalf("Append() failed: %v", err)
				}
				if r.ID == "" {
					t.Error("Append() did not assign an ID")
				}
			}

			all, err := store.Query(ctx, &Query{RunID: "run-1"})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("Query() returned %d records, want 3", len(all))
			}
			// Oldest first.
			if all[0].Path != "/renders/shot01_scratch.tmp" {
				t.Errorf("first record path = %s, want the oldest", all[0].Path)
			}
			if all[0].Categories[0] != "temp" {
				t.Errorf("categories did not round-trip: %v", all[0].Categories)
			}
		})
	}
}

// TestStorage_QueryFilters tests the filter surface used by idempotence
// checks and reporting.
func TestStorage_QueryFilters(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, r := range sampleRecords("run-1") {
				if err := store.Append(ctx, r); err != nil {
					t.Fatalf("Append() failed: %v", err)
				}
			}

			// Path + fingerprint is the idempotence key.
			got, err := store.Query(ctx, &Query{
				Path:        "/renders/shot01_scratch.tmp",
				Fingerprint: "aaa",
			})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(got) != 1 || got[0].Action != "delete" {
				t.Errorf("path+fingerprint query returned %d records", len(got))
			}

			// Failed outcomes only.
			failed := false
			got, err = store.Query(ctx, &Query{Success: &failed})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(got) != 1 || got[0].ErrorKind != "archive_verification" {
				t.Errorf("success filter returned %d records", len(got))
			}

			n, err := store.Count(ctx, &Query{Action: "keep"})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if n != 1 {
				t.Errorf("Count(action=keep) = %d, want 1", n)
			}
		})
	}
}

// TestStorage_RunSegmentIsolation tests that queries scoped to one run do not
// see another run's records.
func TestStorage_RunSegmentIsolation(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, r := range sampleRecords("run-1") {
				if err := store.Append(ctx, r); err != nil {
					t.Fatalf("Append() failed: %v", err)
				}
			}
			for _, r := range sampleRecords("run-2") {
				if err := store.Append(ctx, r); err != nil {
					t.Fatalf("Append() failed: %v", err)
				}
			}

			n, err := store.Count(ctx, &Query{RunID: "run-2"})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if n != 3 {
				t.Errorf("Count(run-2) = %d, want 3", n)
			}
		})
	}
}

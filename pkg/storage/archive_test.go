package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// corruptingBackend wraps Local but truncates every write, simulating a
// cold-storage target that loses bytes.
type corruptingBackend struct {
	*Local
}

func (c *corruptingBackend) Write(ctx context.Context, dest string, r io.Reader) (WriteReceipt, error) {
	return c.Local.Write(ctx, dest, io.LimitReader(r, 3))
}

// TestDirArchive_Store tests a verified archive write.
func TestDirArchive_Store(t *testing.T) {
	srcDir := t.TempDir()
	archiveDir := t.TempDir()
	src := filepath.Join(srcDir, "shot01.bak")
	writeFile(t, src, "backup payload")

	a := NewDirArchive(NewLocal(), archiveDir, "run-1")
	receipt, err := a.Store(context.Background(), src)
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	if !strings.HasPrefix(receipt.Destination, archiveDir) {
		t.Errorf("archive landed at %s, want under %s", receipt.Destination, archiveDir)
	}
	got, err := os.ReadFile(receipt.Destination)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(got) != "backup payload" {
		t.Error("archived content does not match source")
	}

	// The source is untouched; deletion is the engine's call.
	if _, err := os.Lstat(src); err != nil {
		t.Errorf("source missing after Store(): %v", err)
	}
}

// TestDirArchive_VerificationFailure tests that a short write surfaces as a
// VerificationError and never reports success.
func TestDirArchive_VerificationFailure(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "shot01.bak")
	writeFile(t, src, "backup payload")

	a := NewDirArchive(&corruptingBackend{Local: NewLocal()}, t.TempDir(), "run-1")
	_, err := a.Store(context.Background(), src)
	if err == nil {
		t.Fatal("Store() succeeded despite a corrupted write")
	}
	if _, ok := err.(*VerificationError); !ok {
		t.Errorf("Store() error = %T, want *VerificationError", err)
	}

	// Source must survive a failed archive.
	if _, statErr := os.Lstat(src); statErr != nil {
		t.Errorf("source missing after failed Store(): %v", statErr)
	}
}

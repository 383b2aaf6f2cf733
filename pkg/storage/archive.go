package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// DirArchive is an Archiver targeting a directory, typically a cold-storage
// mount. Each run gets its own timestamped subdirectory, and archived files
// keep their source path layout underneath it so re-runs and audits can find
// them.
type DirArchive struct {
	backend Backend
	dir     string
	prefix  string
	logger  *slog.Logger
}

// NewDirArchive creates an archiver writing under dir. runID becomes part of
// the per-run subdirectory name.
func NewDirArchive(backend Backend, dir, runID string) *DirArchive {
	return &DirArchive{
		backend: backend,
		dir:     dir,
		prefix:  fmt.Sprintf("%s_%s", runID, time.Now().Format("20060102_150405")),
		logger:  slog.Default().With("component", "storage.archive"),
	}
}

// Store archives the file at src and verifies the written copy against the
// source fingerprint and size before returning the receipt. On any mismatch
// it returns a VerificationError and the caller must not delete the source.
func (a *DirArchive) Store(ctx context.Context, src string) (WriteReceipt, error) {
	srcFP, srcBytes, err := FingerprintFile(src)
	if err != nil {
		return WriteReceipt{}, err
	}

	f, err := a.backend.Open(ctx, src)
	if err != nil {
		return WriteReceipt{}, err
	}
	defer f.Close()

	dest := filepath.Join(a.dir, a.prefix, strings.TrimPrefix(src, string(filepath.Separator)))
	receipt, err := a.backend.Write(ctx, dest, f)
	if err != nil {
		return WriteReceipt{}, err
	}

	if receipt.Fingerprint != srcFP || receipt.Bytes != srcBytes {
		return WriteReceipt{}, &VerificationError{
			Path:            src,
			WantFingerprint: srcFP,
			GotFingerprint:  receipt.Fingerprint,
			WantBytes:       srcBytes,
			GotBytes:        receipt.Bytes,
		}
	}

	a.logger.Debug("archived file",
		"src", src,
		"dest", receipt.Destination,
		"bytes", receipt.Bytes,
	)
	return receipt, nil
}

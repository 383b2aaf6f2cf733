package storage

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// secureWipeChunk is the buffer size used when overwriting content during
// secure deletes.
const secureWipeChunk = 64 * 1024

// Local is the Backend for a locally mounted filesystem.
type Local struct {
	logger *slog.Logger
}

// NewLocal creates a local filesystem backend.
func NewLocal() *Local {
	return &Local{
		logger: slog.Default().With("component", "storage.local"),
	}
}

// Stat returns info for a single path.
func (l *Local) Stat(ctx context.Context, path string) (EntryInfo, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return EntryInfo{}, NewStorageError("stat", path, err)
	}
	return EntryInfo{
		Path:    path,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
		IsDir:   fi.IsDir(),
	}, nil
}

// Open returns the file's content for reading.
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewStorageError("open", path, err)
	}
	return f, nil
}

// Delete unlinks the file.
func (l *Local) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return NewStorageError("delete", path, err)
	}
	l.logger.Debug("deleted file", "path", path)
	return nil
}

// SecureDelete overwrites the file's content with zeros, syncs, and unlinks.
// Any overwrite failure fails the delete as a whole; the file is never
// silently removed without obliteration.
func (l *Local) SecureDelete(ctx context.Context, path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return NewStorageError("secure_delete", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return NewStorageError("secure_delete", path, err)
	}

	zeros := make([]byte, secureWipeChunk)
	remaining := fi.Size()
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			f.Close()
			return NewStorageError("secure_delete", path, err)
		}
		chunk := int64(len(zeros))
		if remaining < chunk {
			chunk = remaining
		}
		if _, err := f.Write(zeros[:chunk]); err != nil {
			f.Close()
			return NewStorageError("secure_delete", path, err)
		}
		remaining -= chunk
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return NewStorageError("secure_delete", path, err)
	}
	if err := f.Close(); err != nil {
		return NewStorageError("secure_delete", path, err)
	}

	if err := os.Remove(path); err != nil {
		return NewStorageError("secure_delete", path, err)
	}
	l.logger.Debug("securely deleted file", "path", path, "bytes_wiped", fi.Size())
	return nil
}

// Write stores the reader's content at dest and returns a receipt with the
// fingerprint of what was written. The write goes through a temp file and a
// rename so a crash never leaves a half-written destination.
func (l *Local) Write(ctx context.Context, dest string, r io.Reader) (WriteReceipt, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return WriteReceipt{}, NewStorageError("write", dest, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".janus-*")
	if err != nil {
		return WriteReceipt{}, NewStorageError("write", dest, err)
	}
	tmpName := tmp.Name()

	fail := func(cause error) (WriteReceipt, error) {
		tmp.Close()
		os.Remove(tmpName)
		return WriteReceipt{}, NewStorageError("write", dest, cause)
	}

	fp, n, err := fingerprintingCopy(tmp, r)
	if err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return WriteReceipt{}, NewStorageError("write", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return WriteReceipt{}, NewStorageError("write", dest, err)
	}

	return WriteReceipt{Destination: dest, Bytes: n, Fingerprint: fp}, nil
}

// fingerprintingCopy copies r into w while hashing the stream, so the receipt
// fingerprints exactly the bytes written.
func fingerprintingCopy(w io.Writer, r io.Reader) (string, int64, error) {
	h := blake3.New()
	n, err := io.Copy(w, io.TeeReader(r, h))
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

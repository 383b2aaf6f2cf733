package storage

import (
	"context"
	"io"
	"time"
)

// EntryInfo describes one filesystem or object-store entry as listed by a
// backend.
type EntryInfo struct {
	// Path is the backend-absolute path of the entry.
	Path string

	// Size is the entry's size in bytes. Zero for directories.
	Size int64

	// ModTime is the last-modification timestamp.
	ModTime time.Time

	// IsDir marks directory entries.
	IsDir bool
}

// WriteReceipt confirms a durable write. Receipts carry enough to verify the
// write against the source before anything is deleted.
type WriteReceipt struct {
	// Destination is where the bytes landed.
	Destination string

	// Bytes is the number of bytes durably written.
	Bytes int64

	// Fingerprint is the hex-encoded BLAKE3 hash of the written content.
	Fingerprint string
}

// Backend is the narrow storage capability set the engine depends on.
// Implementations must be safe for concurrent use on distinct paths; the
// engine serializes all operations touching the same path.
type Backend interface {
	// Stat returns info for a single path.
	Stat(ctx context.Context, path string) (EntryInfo, error)

	// Open returns the entry's content for reading.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete unlinks the entry.
	Delete(ctx context.Context, path string) error

	// SecureDelete overwrites the entry's content before unlinking so it
	// cannot be recovered. A failed overwrite fails the whole delete;
	// implementations must not fall back to a plain unlink.
	SecureDelete(ctx context.Context, path string) error

	// Write stores the reader's content at dest, creating parent directories
	// as needed, and returns a verified receipt.
	Write(ctx context.Context, dest string, r io.Reader) (WriteReceipt, error)
}

// Archiver stores files in cold storage. Store must not return a receipt
// until the write is durable; the engine deletes sources only after the
// receipt verifies against the source fingerprint and size.
type Archiver interface {
	// Store archives the file at src and returns a verified receipt.
	Store(ctx context.Context, src string) (WriteReceipt, error)
}

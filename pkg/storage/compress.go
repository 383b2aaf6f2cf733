package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec selects the compression format for the compress action.
type Codec string

const (
	// CodecZstd compresses with Zstandard. This is the default.
	CodecZstd Codec = "zstd"

	// CodecGzip compresses with gzip.
	CodecGzip Codec = "gzip"
)

// Extension returns the file extension the codec appends.
func (c Codec) Extension() string {
	switch c {
	case CodecGzip:
		return ".gz"
	default:
		return ".zst"
	}
}

// Valid reports whether the codec is known.
func (c Codec) Valid() bool {
	return c == CodecZstd || c == CodecGzip
}

// alreadyCompressed lists extensions that gain nothing from recompression.
// Files with these extensions skip the compress action and fall through to
// archive or delete.
var alreadyCompressed = map[string]bool{
	".zip": true, ".gz": true, ".zst": true, ".rar": true, ".7z": true,
	".mp4": true, ".mov": true, ".jpg": true, ".jpeg": true, ".png": true,
}

// Compressible reports whether the compress action applies to the path.
func Compressible(path string) bool {
	return !alreadyCompressed[strings.ToLower(filepath.Ext(path))]
}

// CompressResult describes a completed, verified compression.
type CompressResult struct {
	// Dest is the compressed file's path (source path plus codec extension).
	Dest string

	// OriginalBytes is the source size.
	OriginalBytes int64

	// CompressedBytes is the compressed size.
	CompressedBytes int64
}

// CompressFile writes a compressed copy of path next to it and verifies the
// copy decompresses back to the source content before returning. The source
// is left in place; the caller deletes it once it has recorded the outcome.
func CompressFile(ctx context.Context, backend Backend, path string, codec Codec) (CompressResult, error) {
	srcFP, srcBytes, err := FingerprintFile(path)
	if err != nil {
		return CompressResult{}, err
	}

	src, err := backend.Open(ctx, path)
	if err != nil {
		return CompressResult{}, err
	}
	defer src.Close()

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(compressStream(pw, src, codec))
	}()

	dest := path + codec.Extension()
	receipt, err := backend.Write(ctx, dest, pr)
	if err != nil {
		return CompressResult{}, err
	}

	// Verify: the compressed copy must decompress to exactly the source.
	gotFP, gotBytes, err := decompressFingerprint(ctx, backend, dest, codec)
	if err != nil {
		backend.Delete(ctx, dest)
		return CompressResult{}, err
	}
	if gotFP != srcFP || gotBytes != srcBytes {
		backend.Delete(ctx, dest)
		return CompressResult{}, &VerificationError{
			Path:            path,
			WantFingerprint: srcFP,
			GotFingerprint:  gotFP,
			WantBytes:       srcBytes,
			GotBytes:        gotBytes,
		}
	}

	slog.Default().With("component", "storage.compress").Debug("compressed file",
		"path", path,
		"dest", dest,
		"original_bytes", srcBytes,
		"compressed_bytes", receipt.Bytes,
	)
	return CompressResult{
		Dest:            dest,
		OriginalBytes:   srcBytes,
		CompressedBytes: receipt.Bytes,
	}, nil
}

// compressStream compresses r into w with the given codec.
func compressStream(w io.Writer, r io.Reader, codec Codec) error {
	switch codec {
	case CodecGzip:
		zw := gzip.NewWriter(w)
		if _, err := io.Copy(zw, r); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case CodecZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := io.Copy(zw, r); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	default:
		return fmt.Errorf("unknown codec %q", codec)
	}
}

// decompressFingerprint fingerprints the decompressed content of a compressed
// file.
func decompressFingerprint(ctx context.Context, backend Backend, path string, codec Codec) (string, int64, error) {
	f, err := backend.Open(ctx, path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	var zr io.ReadCloser
	switch codec {
	case CodecGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", 0, NewStorageError("decompress", path, err)
		}
		zr = gz
	case CodecZstd:
		zd, err := zstd.NewReader(f)
		if err != nil {
			return "", 0, NewStorageError("decompress", path, err)
		}
		zr = zd.IOReadCloser()
	default:
		return "", 0, fmt.Errorf("unknown codec %q", codec)
	}
	defer zr.Close()

	fp, n, err := Fingerprint(zr)
	if err != nil {
		return "", 0, NewStorageError("decompress", path, err)
	}
	return fp, n, nil
}

package storage

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Fingerprint computes the BLAKE3 hash of everything read from r and returns
// it hex-encoded along with the byte count.
func Fingerprint(r io.Reader) (string, int64, error) {
	h := blake3.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// FingerprintFile computes the BLAKE3 fingerprint of a file's content.
func FingerprintFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, NewStorageError("fingerprint", path, err)
	}
	defer f.Close()

	fp, n, err := Fingerprint(f)
	if err != nil {
		return "", 0, NewStorageError("fingerprint", path, err)
	}
	return fp, n, nil
}

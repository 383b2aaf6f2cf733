package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestCompressible tests the already-compressed skip list.
func TestCompressible(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"renders/beauty.exr", true},
		{"logs/render.log", true},
		{"shot01.mp4", false},
		{"preview.JPG", false},
		{"old_cache.zip", false},
		{"frames.tar.gz", false},
	}
	for _, tt := range tests {
		if got := Compressible(tt.path); got != tt.want {
			t.Errorf("Compressible(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// TestCompressFile tests a verified compress for both codecs.
func TestCompressFile(t *testing.T) {
	for _, codec := range []Codec{CodecZstd, CodecGzip} {
		t.Run(string(codec), func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "render.log")
			content := strings.Repeat("frame 0001 rendered in 12.3s\n", 200)
			writeFile(t, src, content)

			res, err := CompressFile(context.Background(), NewLocal(), src, codec)
			if err != nil {
				t.Fatalf("CompressFile() failed: %v", err)
			}

			if res.Dest != src+codec.Extension() {
				t.Errorf("Dest = %s, want %s", res.Dest, src+codec.Extension())
			}
			if res.OriginalBytes != int64(len(content)) {
				t.Errorf("OriginalBytes = %d, want %d", res.OriginalBytes, len(content))
			}
			if res.CompressedBytes <= 0 || res.CompressedBytes >= res.OriginalBytes {
				t.Errorf("CompressedBytes = %d, want within (0, %d)", res.CompressedBytes, res.OriginalBytes)
			}

			// Source stays in place until the engine records the outcome.
			if _, err := os.Lstat(src); err != nil {
				t.Errorf("source missing after CompressFile(): %v", err)
			}

			// The verified copy decompresses back to the source content.
			fp, n, err := decompressFingerprint(context.Background(), NewLocal(), res.Dest, codec)
			if err != nil {
				t.Fatalf("decompressFingerprint() failed: %v", err)
			}
			wantFP, _, _ := FingerprintFile(src)
			if fp != wantFP || n != res.OriginalBytes {
				t.Error("decompressed content does not match source")
			}
		})
	}
}

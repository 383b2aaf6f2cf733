package report

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// maxLargestFiles caps the largest-files list in a usage snapshot.
const maxLargestFiles = 10

// ExtStat aggregates files sharing one extension.
type ExtStat struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"total_bytes"`
}

// FileStat is one entry in the largest-files list.
type FileStat struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Usage is a storage utilization snapshot of a directory tree.
type Usage struct {
	TotalBytes  int64              `json:"total_bytes"`
	FileCount   int                `json:"file_count"`
	ByExtension map[string]ExtStat `json:"by_extension"`
	Largest     []FileStat         `json:"largest"`
}

// AnalyzeDir walks a tree and builds a usage snapshot. Unreadable entries are
// skipped; analysis never fails a run.
func AnalyzeDir(root string) *Usage {
	u := &Usage{ByExtension: make(map[string]ExtStat)}

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		size := info.Size()
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = "<none>"
		}

		u.TotalBytes += size
		u.FileCount++
		stat := u.ByExtension[ext]
		stat.Count++
		stat.TotalBytes += size
		u.ByExtension[ext] = stat

		u.Largest = append(u.Largest, FileStat{Path: path, Bytes: size})
		sort.Slice(u.Largest, func(i, j int) bool { return u.Largest[i].Bytes > u.Largest[j].Bytes })
		if len(u.Largest) > maxLargestFiles {
			u.Largest = u.Largest[:maxLargestFiles]
		}
		return nil
	})

	return u
}

// Merge folds another snapshot into u, for runs covering several roots.
func (u *Usage) Merge(other *Usage) {
	u.TotalBytes += other.TotalBytes
	u.FileCount += other.FileCount
	for ext, stat := range other.ByExtension {
		merged := u.ByExtension[ext]
		merged.Count += stat.Count
		merged.TotalBytes += stat.TotalBytes
		u.ByExtension[ext] = merged
	}
	u.Largest = append(u.Largest, other.Largest...)
	sort.Slice(u.Largest, func(i, j int) bool { return u.Largest[i].Bytes > u.Largest[j].Bytes })
	if len(u.Largest) > maxLargestFiles {
		u.Largest = u.Largest[:maxLargestFiles]
	}
}

// Delta summarizes the difference between two usage snapshots.
type Delta struct {
	BytesFreed   int64 `json:"bytes_freed"`
	FilesRemoved int   `json:"files_removed"`
}

// Compare computes the delta from a before snapshot to an after snapshot.
func Compare(before, after *Usage) Delta {
	return Delta{
		BytesFreed:   before.TotalBytes - after.TotalBytes,
		FilesRemoved: before.FileCount - after.FileCount,
	}
}

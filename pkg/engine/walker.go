package engine

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"renderhq/janus/pkg/rules"
)

// WalkerOptions controls traversal behavior.
type WalkerOptions struct {
	// FollowOutsideRoot allows following symlinked directories that resolve
	// outside the walk root. Off by default: a stray link must not pull an
	// unrelated tree into a destructive run.
	FollowOutsideRoot bool
}

// Walker traverses one root and produces the run's classified inventory in
// stable lexical path order, so repeated dry-runs over an unchanged tree are
// reproducible. The walker exclusively owns its traversal state; it is not
// reusable across runs.
type Walker struct {
	root    string
	rules   *rules.RuleSet
	opts    WalkerOptions
	logger  *slog.Logger
	visited map[string]bool // resolved real paths of directories already walked
}

// NewWalker creates a walker over root using the compiled rule set.
func NewWalker(root string, ruleSet *rules.RuleSet, opts WalkerOptions) *Walker {
	return &Walker{
		root:    root,
		rules:   ruleSet,
		opts:    opts,
		logger:  slog.Default().With("component", "engine.walker"),
		visited: make(map[string]bool),
	}
}

// Walk traverses the root and invokes fn for every classified file, in
// lexical path order. Unmatched files are not inventoried: no category means
// keep, and kept-by-default files never produce outcomes. Unreadable entries
// are logged and skipped; a broken corner of the tree must not block the
// rest.
//
// Directories are classified too. A directory's categories are inherited by
// every descendant, merged with the descendant's own matches, so a rule
// matching an entire autosave directory covers files inside it that no
// file-level rule names.
func (w *Walker) Walk(ctx context.Context, fn func(*CandidateEntry) error) error {
	root, err := filepath.Abs(w.root)
	if err != nil {
		return err
	}
	w.root = root

	if _, err := os.Stat(root); err != nil {
		return err
	}
	return w.walkDir(ctx, root, make(rules.CategorySet), fn)
}

func (w *Walker) walkDir(ctx context.Context, dir string, inherited rules.CategorySet, fn func(*CandidateEntry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Each directory is entered at most once per resolved identity, whether
	// reached directly or through a link alias, so a real file is reported
	// exactly once no matter how many paths lead to it.
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.logger.Warn("skipping unresolvable directory", "path", dir, "error", err)
		return nil
	}
	if w.visited[real] {
		w.logger.Debug("skipping already-visited directory", "path", dir, "target", real)
		return nil
	}
	w.visited[real] = true

	entries, err := os.ReadDir(dir) // sorted by name
	if err != nil {
		w.logger.Warn("skipping unreadable directory", "path", dir, "error", err)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		switch {
		case entry.IsDir():
			if err := w.walkDir(ctx, path, w.merge(inherited, rel), fn); err != nil {
				return err
			}
		case entry.Type()&fs.ModeSymlink != 0:
			if err := w.walkLink(ctx, path, rel, inherited, fn); err != nil {
				return err
			}
		default:
			if err := w.walkFile(path, rel, entry, inherited, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// walkLink follows a symlinked directory if its target is in bounds. File
// symlinks are never inventoried: acting on a link path could reach through
// to content the rules never classified. Target identity dedupe is walkDir's
// job; the gate here is only about where the link points.
func (w *Walker) walkLink(ctx context.Context, path, rel string, inherited rules.CategorySet, fn func(*CandidateEntry) error) error {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		w.logger.Warn("skipping broken symlink", "path", path, "error", err)
		return nil
	}

	info, err := os.Stat(real)
	if err != nil || !info.IsDir() {
		return nil
	}

	if !w.opts.FollowOutsideRoot && !w.withinRoot(real) {
		w.logger.Warn("skipping symlink outside root", "path", path, "target", real)
		return nil
	}

	return w.walkDir(ctx, path, w.merge(inherited, rel), fn)
}

func (w *Walker) walkFile(path, rel string, entry fs.DirEntry, inherited rules.CategorySet, fn func(*CandidateEntry) error) error {
	cats := w.merge(inherited, rel)
	if cats.Empty() {
		return nil
	}

	info, err := entry.Info()
	if err != nil {
		w.logger.Warn("skipping unreadable entry", "path", path, "error", err)
		return nil
	}

	return fn(&CandidateEntry{
		Path:       path,
		RelPath:    rel,
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime(),
		Categories: cats,
		State:      StatePending,
	})
}

// merge unions the inherited categories with the rel path's own matches.
func (w *Walker) merge(inherited rules.CategorySet, rel string) rules.CategorySet {
	own := w.rules.Classify(rel)
	for _, c := range inherited.Sorted() {
		own.Add(c)
	}
	return own
}

func (w *Walker) withinRoot(real string) bool {
	rootReal, err := filepath.EvalSymlinks(w.root)
	if err != nil {
		return false
	}
	return real == rootReal || strings.HasPrefix(real, rootReal+string(filepath.Separator))
}

package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"renderhq/janus/pkg/rules"
)

func testRules(t *testing.T, ruleList []rules.Rule) *rules.RuleSet {
	t.Helper()
	rs, err := rules.Compile(ruleList, rules.CompileOptions{})
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	return rs
}

func writeTree(t *testing.T, root string, files map[string]int) {
	t.Helper()
	for name, size := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() failed: %v", err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}
}

func collect(t *testing.T, w *Walker) []*CandidateEntry {
	t.Helper()
	var out []*CandidateEntry
	err := w.Walk(context.Background(), func(e *CandidateEntry) error {
		out = append(out, e)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	return out
}

// TestWalk tests classification, unmatched skipping, and lexical order.
func TestWalk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"b/two.tmp":        10,
		"a/one.tmp":        10,
		"a/keep.exr":       10,
		"logs/render.log":  10,
		"z/deep/three.tmp": 10,
	})

	rs := testRules(t, []rules.Rule{
		{Glob: "*.tmp", Category: rules.CategoryTemp},
		{Glob: "**/logs/**", Category: rules.CategoryLog},
	})

	entries := collect(t, NewWalker(root, rs, WalkerOptions{}))

	var rels []string
	for _, e := range entries {
		rels = append(rels, e.RelPath)
	}
	want := []string{"a/one.tmp", "b/two.tmp", "logs/render.log", "z/deep/three.tmp"}
	if len(rels) != len(want) {
		t.Fatalf("walked %v, want %v", rels, want)
	}
	for i := range want {
		if rels[i] != want[i] {
			t.Fatalf("walked %v, want %v (lexical order)", rels, want)
		}
	}
	if !sort.StringsAreSorted(rels) {
		t.Error("walk order is not lexical")
	}

	for _, e := range entries {
		if e.Categories.Empty() {
			t.Errorf("entry %s has no categories", e.RelPath)
		}
		if e.SizeBytes != 10 {
			t.Errorf("entry %s size = %d, want 10", e.RelPath, e.SizeBytes)
		}
		if e.State != StatePending {
			t.Errorf("entry %s state = %s, want pending", e.RelPath, e.State)
		}
	}
}

// TestWalk_DirectoryInheritance tests that a classified directory's
// categories flow down to descendants and merge with their own matches.
func TestWalk_DirectoryInheritance(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"shot.autosave/frame.exr": 10,
		"shot.autosave/notes.log": 10,
	})

	rs := testRules(t, []rules.Rule{
		{Glob: "*.autosave", Category: rules.CategoryBackup},
		{Glob: "*.log", Category: rules.CategoryLog},
	})

	entries := collect(t, NewWalker(root, rs, WalkerOptions{}))
	if len(entries) != 2 {
		t.Fatalf("walked %d entries, want 2", len(entries))
	}

	for _, e := range entries {
		if !e.Categories.Has(rules.CategoryBackup) {
			t.Errorf("%s did not inherit the directory's backup category", e.RelPath)
		}
	}
	if !entries[1].Categories.Has(rules.CategoryLog) {
		t.Error("notes.log lost its own log category while inheriting")
	}
}

// TestWalk_SymlinkCycle tests that a link cycle terminates and each real
// file is reported exactly once.
func TestWalk_SymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"work/a.tmp": 10,
	})
	if err := os.Symlink(root, filepath.Join(root, "work", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rs := testRules(t, []rules.Rule{{Glob: "*.tmp", Category: rules.CategoryTemp}})

	entries := collect(t, NewWalker(root, rs, WalkerOptions{}))
	if len(entries) != 1 {
		t.Fatalf("walked %d entries, want exactly 1 despite the cycle", len(entries))
	}
	if entries[0].RelPath != "work/a.tmp" {
		t.Errorf("walked %s, want work/a.tmp", entries[0].RelPath)
	}
}

// TestWalk_SiblingLinkAlias tests that a link aliasing a directory that is
// also walked directly does not duplicate its files. The real directory
// sorts before the link, so the walk reaches it first.
func TestWalk_SiblingLinkAlias(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"data/a.tmp": 10,
	})
	if err := os.Symlink(filepath.Join(root, "data"), filepath.Join(root, "mirror")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rs := testRules(t, []rules.Rule{{Glob: "*.tmp", Category: rules.CategoryTemp}})

	entries := collect(t, NewWalker(root, rs, WalkerOptions{}))
	if len(entries) != 1 {
		var rels []string
		for _, e := range entries {
			rels = append(rels, e.RelPath)
		}
		t.Fatalf("real file reported %d times (%v), want exactly once", len(entries), rels)
	}
	if entries[0].RelPath != "data/a.tmp" {
		t.Errorf("walked %s, want data/a.tmp (direct path encountered first)", entries[0].RelPath)
	}
}

// TestWalk_SiblingLinkAliasLinkFirst tests the same alias with the link
// sorting before its target directory.
func TestWalk_SiblingLinkAliasLinkFirst(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"zdata/a.tmp": 10,
	})
	if err := os.Symlink(filepath.Join(root, "zdata"), filepath.Join(root, "alink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rs := testRules(t, []rules.Rule{{Glob: "*.tmp", Category: rules.CategoryTemp}})

	entries := collect(t, NewWalker(root, rs, WalkerOptions{}))
	if len(entries) != 1 {
		var rels []string
		for _, e := range entries {
			rels = append(rels, e.RelPath)
		}
		t.Fatalf("real file reported %d times (%v), want exactly once", len(entries), rels)
	}
	if entries[0].RelPath != "alink/a.tmp" {
		t.Errorf("walked %s, want alink/a.tmp (link path encountered first)", entries[0].RelPath)
	}
}

// TestWalk_SymlinkOutsideRoot tests that links leaving the root are not
// followed unless explicitly allowed.
func TestWalk_SymlinkOutsideRoot(t *testing.T) {
	outside := t.TempDir()
	writeTree(t, outside, map[string]int{"o.tmp": 10})

	root := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rs := testRules(t, []rules.Rule{{Glob: "*.tmp", Category: rules.CategoryTemp}})

	entries := collect(t, NewWalker(root, rs, WalkerOptions{}))
	if len(entries) != 0 {
		t.Fatalf("walked %d entries through an outside link, want 0", len(entries))
	}

	entries = collect(t, NewWalker(root, rs, WalkerOptions{FollowOutsideRoot: true}))
	if len(entries) != 1 {
		t.Fatalf("walked %d entries with FollowOutsideRoot, want 1", len(entries))
	}
}

// TestWalk_Cancellation tests that the walk honors context cancellation.
func TestWalk_Cancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"a/x.tmp": 1, "b/y.tmp": 1})

	rs := testRules(t, []rules.Rule{{Glob: "*.tmp", Category: rules.CategoryTemp}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWalker(root, rs, WalkerOptions{}).Walk(ctx, func(e *CandidateEntry) error {
		t.Errorf("callback invoked after cancellation: %s", e.RelPath)
		return nil
	})
	if err == nil {
		t.Error("Walk() ignored a cancelled context")
	}
}

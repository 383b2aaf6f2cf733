package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a configuration or catalog file and invokes a reload
// callback when it changes. Editors often emit bursts of write events for a
// single save, so events are debounced before the callback fires.
type FileWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// DefaultDebounceInterval is the default quiet period after the last event
// before a reload fires.
const DefaultDebounceInterval = 250 * time.Millisecond

// NewFileWatcher creates a watcher for the given file. A non-positive
// debounce falls back to DefaultDebounceInterval.
func NewFileWatcher(path string, debounce time.Duration) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	return &FileWatcher{
		path:     path,
		debounce: debounce,
		logger:   slog.Default().With("component", "config.watcher"),
	}
}

// Watch blocks, invoking onReload after each debounced change to the file,
// until the context is cancelled or Stop is called. Reload errors are logged
// and do not stop the watch: the previous state stays active.
func (w *FileWatcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running for %q", w.path)
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		close(w.doneCh)
		w.mu.Unlock()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory: editors that save via rename replace the
	// inode, and a watch on the file itself would silently die.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("watching file for changes", "path", w.path, "debounce", w.debounce)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.logger.Info("file changed, reloading", "path", w.path)
			if err := onReload(); err != nil {
				w.logger.Error("reload failed, keeping previous state",
					"path", w.path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Stop terminates a running Watch and waits for it to return.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()
	<-done
}

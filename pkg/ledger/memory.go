package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory ledger for tests and one-shot runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func key(path, fingerprint, action string) string {
	return path + "\x00" + fingerprint + "\x00" + action
}

// Completed reports whether the action already completed for this key.
func (m *MemoryStore) Completed(ctx context.Context, path, fingerprint, action string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[key(path, fingerprint, action)]
	return ok, nil
}

// MarkCompleted records a completed action.
func (m *MemoryStore) MarkCompleted(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now()
	}
	m.entries[key(e.Path, e.Fingerprint, e.Action)] = e
	return nil
}

// Close releases resources. A no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}

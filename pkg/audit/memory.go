package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory audit backend for tests and dry runs that
// should leave nothing on disk.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStorage creates an empty in-memory audit backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Append persists a record.
func (m *MemoryStorage) Append(ctx context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now()
	}
	record.ID = stored.ID
	m.records = append(m.records, &stored)
	return nil
}

// Query retrieves records matching the filters, oldest first.
func (m *MemoryStorage) Query(ctx context.Context, query *Query) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	skipped := 0
	for _, r := range m.records {
		if !matchesQuery(r, query) {
			continue
		}
		if query != nil && skipped < query.Offset {
			skipped++
			continue
		}
		copied := *r
		out = append(out, &copied)
		if query != nil && query.Limit > 0 && len(out) >= query.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of records matching the filters.
func (m *MemoryStorage) Count(ctx context.Context, query *Query) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, r := range m.records {
		if matchesQuery(r, query) {
			n++
		}
	}
	return n, nil
}

// Close releases resources. A no-op for the memory backend.
func (m *MemoryStorage) Close() error {
	return nil
}

// matchesQuery applies the query filters to one record.
func matchesQuery(r *Record, q *Query) bool {
	if q == nil {
		return true
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.Path != "" && r.Path != q.Path {
		return false
	}
	if q.Fingerprint != "" && r.Fingerprint != q.Fingerprint {
		return false
	}
	if q.Action != "" && r.Action != q.Action {
		return false
	}
	if q.Success != nil && r.Success != *q.Success {
		return false
	}
	if q.Simulated != nil && r.Simulated != *q.Simulated {
		return false
	}
	if q.StartTime != nil && r.Timestamp.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.Timestamp.After(*q.EndTime) {
		return false
	}
	return true
}

package trends

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps snapshots in memory. It is used when no database is
// configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]Snapshot)}
}

// Add implements Store.
func (m *MemoryStore) Add(_ context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append(m.snapshots[s.UserID], s)
	slices.SortStableFunc(list, func(a, b Snapshot) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	m.snapshots[s.UserID] = list
	return nil
}

// Since implements Store.
func (m *MemoryStore) Since(_ context.Context, userID string, since time.Time) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Snapshot
	for _, s := range m.snapshots[userID] {
		if !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, userID)
	return nil
}

var _ Store = (*MemoryStore)(nil)

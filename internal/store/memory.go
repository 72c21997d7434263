package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/alias"
)

// MemoryStore is an in-memory implementation of alias.Repository.
// Short id uniqueness is checked and claimed under the same lock.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[alias.ShortID]alias.Record
}

// NewMemoryStore creates a new in-memory alias store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[alias.ShortID]alias.Record),
	}
}

func (m *MemoryStore) Create(_ context.Context, record *alias.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.records[record.ShortID]; taken {
		return alias.ErrConflict
	}

	m.records[record.ShortID] = *record

	return nil
}

func (m *MemoryStore) GetByShortID(_ context.Context, id alias.ShortID) (*alias.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, alias.ErrNotFound
	}

	return &record, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, owner string) ([]*alias.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*alias.Record, 0)

	for _, record := range m.records {
		if record.Owner == owner {
			rec := record
			records = append(records, &rec)
		}
	}

	slices.SortFunc(records, func(a, b *alias.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return records, nil
}

func (m *MemoryStore) DeleteOwned(_ context.Context, id alias.ShortID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok || record.Owner != owner {
		return alias.ErrNotFound
	}

	delete(m.records, id)

	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged int64

	for id, record := range m.records {
		if record.ExpireAt.Before(cutoff) {
			delete(m.records, id)
			purged++
		}
	}

	return purged, nil
}

// Ping always succeeds; it lets the memory store stand in as a health dependency.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

var _ alias.Repository = (*MemoryStore)(nil)

// Package storage persists ledger snapshots as JSON blobs under fixed keys.
// The application keeps full state in memory and mirrors it here on every
// mutation, so the store only ever needs point reads and whole-value writes.
package storage

import (
	"context"
	"sync"
)

// Keys under which the application state is persisted.
const (
	KeyExpenses = "expenses-collection"
	KeySettings = "settings"
)

// Store is a minimal key-value port. Get reports ok=false when the key has
// never been written; Put overwrites unconditionally.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryStore keeps values in a map. It backs tests and the memory backend.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

func (s *MemoryStore) Close() error { return nil }

package db

import (
	"context"
	"slices"
	"sync"
)

type memStore struct {
	mu   sync.RWMutex
	byID map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string][]byte)}
}

func (m *memStore) get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.byID[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *memStore) put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[key] = slices.Clone(value)
	return nil
}

func (m *memStore) Close() error { return nil }

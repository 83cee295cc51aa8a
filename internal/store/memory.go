package store

import (
	"context"
	"sync"
)

// MemorySubstrate is a map-backed substrate. State lives for the process
// lifetime only; useful for tests and ephemeral deployments.
type MemorySubstrate struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{data: make(map[string]string)}
}

func (m *MemorySubstrate) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (m *MemorySubstrate) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemorySubstrate) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

package keystore

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. It is used in tests and for
// ephemeral sessions where nothing may touch the disk.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Save stores a copy of data.
func (m *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = bytes.Clone(data)
	return nil
}

// Retrieve returns a copy of the stored value.
func (m *MemoryStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return bytes.Clone(data), nil
}

// Delete removes key and zeroes the stored bytes.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.values[key]; ok {
		clear(data)
		delete(m.values, key)
	}
	return nil
}

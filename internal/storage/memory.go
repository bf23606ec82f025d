package storage

import (
	"context"
	"sync"
)

// Memory keeps blobs in-process. State does not survive a restart; it backs
// tests and the explicit "memory" driver.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemory builds an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

// Load returns the blob stored under key, or ErrNotFound.
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// Save writes the blob stored under key.
func (m *Memory) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.blobs[key] = stored
	return nil
}

// Delete removes the blob stored under key, if any.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// Close implements Store; nothing to release.
func (m *Memory) Close() error {
	return nil
}

package store

import (
	"context"
	"sync"
)

// Blobs is the key to JSON text persistence used by the state stores.
// *Store and *Memory implement it.
type Blobs interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Memory is a volatile Blobs implementation. It counts writes per key.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	writes map[string]int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}, writes: map[string]int{}}
}

// Get implements Blobs.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Blobs.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes[key]++
	return nil
}

// Writes returns how many times key was written.
func (m *Memory) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

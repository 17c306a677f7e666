// Package storage keeps the id→type cache shared by the parsers of one
// source. The first type recorded for an id wins; later writers either agree
// or get ErrConflict.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Cache maps entity ids to the type label they were first seen with.
type Cache interface {
	// Get returns the recorded type or ErrNotFound.
	Get(ctx context.Context, id string) (string, error)

	// SetIfAbsent records typ for id unless a type is already present.
	// Recording the same type again is not an error.
	SetIfAbsent(ctx context.Context, id, typ string) error

	// Len returns the number of recorded ids.
	Len(ctx context.Context) (int, error)

	Close() error
}

// MemoryStore is an in-process Cache.
type MemoryStore struct {
	mu    sync.RWMutex
	types map[string]string
}

// NewMemoryStore creates an empty in-process cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{types: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	typ, ok := m.types[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return typ, nil
}

func (m *MemoryStore) SetIfAbsent(_ context.Context, id, typ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.types[id]; ok {
		return settle(id, existing, typ)
	}
	m.types[id] = typ
	return nil
}

func (m *MemoryStore) Len(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.types), nil
}

func (m *MemoryStore) Close() error { return nil }

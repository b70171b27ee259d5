package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/porter/core"
)

type memoryEntry struct {
	value    string
	deadline time.Time
}

// MemoryStore implements the session store with an in-memory map.
// Entries expire lazily on read. Intended for tests and local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Set stores a value under key; a zero TTL means no expiry
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.deadline = s.now().Add(ttl)
	}
	s.data[key] = entry
	return nil
}

// Get retrieves a value by key, evicting it if its TTL has passed
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[key]
	if !ok {
		return "", core.ErrSessionNotFound
	}
	if !entry.deadline.IsZero() && s.now().After(entry.deadline) {
		delete(s.data, key)
		return "", core.ErrSessionNotFound
	}
	return entry.value, nil
}

// Delete removes keys; absent keys are ignored
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Clear removes all entries; useful to reset the store between tests
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]memoryEntry)
}

package users

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
)

// MemoryStore implements the user store with an in-memory map, keyed by
// address. Intended for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*core.User
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*core.User)}
}

var _ ports.UserStore = (*MemoryStore)(nil)

// FindByAddress returns the user controlling the given address
func (s *MemoryStore) FindByAddress(ctx context.Context, address string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[address]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// FindByID returns the user with the given id
func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, core.ErrUserNotFound
}

// Create inserts a new user record
func (s *MemoryStore) Create(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *user
	s.users[user.PublicAddress] = &clone
	return nil
}

// Update persists mutations to an existing user record
func (s *MemoryStore) Update(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.PublicAddress]; !ok {
		return core.ErrUserNotFound
	}
	clone := *user
	s.users[user.PublicAddress] = &clone
	return nil
}

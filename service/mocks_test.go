package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
)

// failingSessionStore wraps a SessionStore and fails writes on demand
type failingSessionStore struct {
	ports.SessionStore
	failSet bool
}

func (s *failingSessionStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.failSet {
		return core.ErrStoreUnavailable
	}
	return s.SessionStore.Set(ctx, key, value, ttl)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu        sync.Mutex
	signOuts  []string
	mirrors   []string
	usernames []string
}

func (p *recordingPublisher) PublishSignOut(ctx context.Context, address string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts = append(p.signOuts, address)
	return nil
}

func (p *recordingPublisher) PublishTokenMirror(ctx context.Context, address, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mirrors = append(p.mirrors, address)
	return nil
}

func (p *recordingPublisher) PublishUsernameChanged(ctx context.Context, address, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.usernames = append(p.usernames, username)
	return nil
}

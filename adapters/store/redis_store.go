package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the session store
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis session store
func NewRedisStore(client *redis.Client) ports.SessionStore {
	return &RedisStore{
		client: client,
		prefix: "porter:session:",
	}
}

// Set writes a session entry with the given TTL, overwriting any previous
// value under the same key
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", core.ErrStoreUnavailable, key, err)
	}
	return nil
}

// Get retrieves a session entry by key
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", core.ErrSessionNotFound
		}
		return "", fmt.Errorf("%w: get %s: %v", core.ErrStoreUnavailable, key, err)
	}
	return value, nil
}

// Delete removes session entries; absent keys are ignored
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", core.ErrStoreUnavailable, err)
	}
	return nil
}

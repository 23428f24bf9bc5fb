package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "console:session"

// RedisStore keeps the token in a single Redis key so multiple console
// instances can share one operator session. An optional TTL lets the slot
// expire server-side; the gateway's 401 handling still owns invalidation.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKey overrides the Redis key the token is stored under.
func WithKey(key string) RedisOption {
	return func(s *RedisStore) { s.key = key }
}

// WithTTL sets an expiry on the stored token. Zero means no expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// NewRedisStore returns a store backed by the given client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("credentials: redis client required")
	}
	s := &RedisStore{
		client: client,
		key:    defaultRedisKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get reads the stored token. A missing key is an empty slot, not an error.
func (s *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credentials: redis get: %w", err)
	}
	return token, nil
}

// Set stores token under the configured key.
func (s *RedisStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("credentials: redis set: %w", err)
	}
	return nil
}

// Clear deletes the key. Clearing an empty slot is a no-op.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("credentials: redis del: %w", err)
	}
	return nil
}

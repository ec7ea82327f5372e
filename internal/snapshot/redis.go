package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "jdocmanual-finder:access:"

// RedisStore keeps snapshots in redis so that the before-save and
// after-save events of one request may land on different instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore using client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Put records a snapshot with the store's TTL
func (s *RedisStore) Put(ctx context.Context, key Key, access int) error {
	if err := s.client.Set(ctx, keyPrefix+key.String(), access, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store access snapshot: %w", err)
	}
	return nil
}

// Take returns and deletes a snapshot atomically
func (s *RedisStore) Take(ctx context.Context, key Key) (int, bool, error) {
	access, err := s.client.GetDel(ctx, keyPrefix+key.String()).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to take access snapshot: %w", err)
	}
	return access, true, nil
}

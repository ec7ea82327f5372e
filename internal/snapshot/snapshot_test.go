package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutTake(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	key := Key{RequestID: "req-1", ItemID: 42}

	require.NoError(t, store.Put(ctx, key, 3))

	access, ok, err := store.Take(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, access)

	// A snapshot is consumed by the first Take
	_, ok, err = store.Take(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Key{RequestID: "req-1", ItemID: 1}, 1))
	require.NoError(t, store.Put(ctx, Key{RequestID: "req-2", ItemID: 1}, 2))

	access, ok, _ := store.Take(ctx, Key{RequestID: "req-2", ItemID: 1})
	assert.True(t, ok)
	assert.Equal(t, 2, access)

	access, ok, _ = store.Take(ctx, Key{RequestID: "req-1", ItemID: 1})
	assert.True(t, ok)
	assert.Equal(t, 1, access)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, Key{RequestID: "old", ItemID: 1}, 1))

	now = now.Add(2 * time.Minute)
	_, ok, err := store.Take(ctx, Key{RequestID: "old", ItemID: 1})
	require.NoError(t, err)
	assert.False(t, ok, "expired snapshot must not be returned")

	require.NoError(t, store.Put(ctx, Key{RequestID: "stale", ItemID: 2}, 1))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Put(ctx, Key{RequestID: "fresh", ItemID: 3}, 1))
	assert.Equal(t, 1, store.Len(), "expired entries are dropped on Put")
}

func TestRedisStore_PutTake(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()
	key := Key{RequestID: "req-9", ItemID: 7}

	require.NoError(t, store.Put(ctx, key, 5))
	assert.True(t, mr.Exists(keyPrefix+"req-9:7"))

	access, ok, err := store.Take(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, access)
	assert.False(t, mr.Exists(keyPrefix+"req-9:7"))

	_, ok, err = store.Take(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()
	key := Key{RequestID: "req-ttl", ItemID: 1}

	require.NoError(t, store.Put(ctx, key, 1))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Take(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

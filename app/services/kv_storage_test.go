package services

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyValueStorage(t *testing.T, storage KeyValueStorage, prefix string) {
	ctx := context.Background()
	key := prefix + "authenticated"

	_, ok, err := storage.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, key, "true"))
	v, ok, err := storage.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, storage.Set(ctx, key, "false"))
	v, _, err = storage.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, storage.Remove(ctx, key))
	_, ok, err = storage.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error
	assert.NoError(t, storage.Remove(ctx, key))
}

func TestMemoryKeyValueStorage(t *testing.T) {
	testKeyValueStorage(t, NewMemoryKeyValueStorage(), "")
}

func TestRedisKeyValueStorage(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	testKeyValueStorage(t, NewRedisKeyValueStorage(client), "test:"+uuid.NewString()+":")
}

func TestNamespacedStorage(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryKeyValueStorage()
	first := NewNamespacedStorage(base, "session:a:")
	second := NewNamespacedStorage(base, "session:b:")

	testKeyValueStorage(t, first, "")

	require.NoError(t, first.Set(ctx, "authenticated", "true"))
	require.NoError(t, second.Set(ctx, "authenticated", "false"))

	v, ok, err := base.Get(ctx, "session:a:authenticated")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	v, _, err = second.Get(ctx, "authenticated")
	require.NoError(t, err)
	assert.Equal(t, "false", v)
	assert.Equal(t, 2, base.Len())

	require.NoError(t, first.Remove(ctx, "authenticated"))
	assert.Equal(t, 1, base.Len())
}

package businessflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(storage services.KeyValueStorage, size int, clock *testClock) *SessionRegistry {
	return NewSessionRegistry(storage, testCreds, "session:", size, time.Hour, WithSessionClock(clock.Now))
}

func TestSessionRegistry_SameSessionSameGuard(t *testing.T) {
	registry := newTestRegistry(services.NewMemoryKeyValueStorage(), 16, &testClock{now: fixedNow})
	ctx := context.Background()

	first := registry.Guard(ctx, "abc")
	second := registry.Guard(ctx, "abc")
	assert.Same(t, first, second)
	assert.Equal(t, 1, registry.Len())
}

func TestSessionRegistry_SessionsAreIsolated(t *testing.T) {
	storage := services.NewMemoryKeyValueStorage()
	registry := newTestRegistry(storage, 16, &testClock{now: fixedNow})
	ctx := context.Background()

	admin := registry.Guard(ctx, "admin-browser")
	visitor := registry.Guard(ctx, "other-browser")

	require.True(t, admin.Login(ctx, testCreds.Username, testCreds.Password))
	assert.True(t, admin.CheckAuth())
	assert.False(t, visitor.CheckAuth())

	v, ok, err := storage.Get(ctx, "session:admin-browser:authenticated")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	_, ok, err = storage.Get(ctx, "session:other-browser:authenticated")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRegistry_ForgottenGuardIsRestored(t *testing.T) {
	storage := services.NewMemoryKeyValueStorage()
	clock := &testClock{now: fixedNow}
	registry := newTestRegistry(storage, 16, clock)
	ctx := context.Background()

	original := registry.Guard(ctx, "abc")
	require.True(t, original.Login(ctx, testCreds.Username, testCreds.Password))

	registry.Forget("abc")
	assert.Zero(t, registry.Len())

	restored := registry.Guard(ctx, "abc")
	assert.NotSame(t, original, restored)
	assert.True(t, restored.CheckAuth())

	// Rebuilding after the timeout applies expiry
	registry.Forget("abc")
	clock.Advance(25 * time.Hour)
	expired := registry.Guard(ctx, "abc")
	assert.False(t, expired.CheckAuth())
	assert.Zero(t, storage.Len())
}

func TestSessionRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	storage := services.NewMemoryKeyValueStorage()
	registry := newTestRegistry(storage, 2, &testClock{now: fixedNow})
	ctx := context.Background()

	first := registry.Guard(ctx, "one")
	require.True(t, first.Login(ctx, testCreds.Username, testCreds.Password))
	registry.Guard(ctx, "two")
	registry.Guard(ctx, "three")

	assert.Equal(t, 2, registry.Len())

	// The evicted session comes back from storage still logged in
	again := registry.Guard(ctx, "one")
	assert.NotSame(t, first, again)
	assert.True(t, again.CheckAuth())
}

func TestSessionRegistry_ConcurrentGuard(t *testing.T) {
	registry := newTestRegistry(services.NewMemoryKeyValueStorage(), 16, &testClock{now: fixedNow})
	ctx := context.Background()

	guards := make([]*SessionGuard, 32)
	var wg sync.WaitGroup
	for i := range guards {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guards[i] = registry.Guard(ctx, "shared")
		}()
	}
	wg.Wait()

	for _, g := range guards {
		assert.Same(t, guards[0], g)
	}
}

// Package services provides infrastructure integrations: caches, key-value storage, object storage and tokens
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/amirphl/desa-ngasem/utils"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	listCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "desa_list_cache_hits_total",
		Help: "Cached list reads served without touching the store",
	}, []string{"resource"})

	listCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "desa_list_cache_misses_total",
		Help: "Cached list reads that fell through to the store",
	}, []string{"resource"})

	listCacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "desa_list_cache_invalidations_total",
		Help: "Cached lists dropped after a successful mutation",
	}, []string{"resource"})
)

// ListCache holds the most recent successful list read per entity type.
// Values are stored as JSON so every implementation round-trips the same way.
//
// Every key carries a generation that Invalidate bumps. A reader takes the generation
// before reading the store and hands it back to Set, so a read that raced a mutation
// never overwrites the invalidation.
type ListCache interface {
	// Get decodes the cached value for key into dest and reports whether it was present
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Generation returns the current invalidation counter of key
	Generation(ctx context.Context, key string) (int64, error)
	// Set stores value only while key is still at generation gen and reports whether it did
	Set(ctx context.Context, key string, gen int64, value any) (bool, error)
	// Invalidate bumps the generation of key and drops its value so the next Get misses
	Invalidate(ctx context.Context, key string) error
}

func observe(key string, hit bool) {
	if hit {
		listCacheHits.WithLabelValues(key).Inc()
		return
	}
	listCacheMisses.WithLabelValues(key).Inc()
}

// setIfGeneration writes KEYS[1] only when KEYS[2] still holds ARGV[1]; a missing counter is 0
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisListCache keeps cached lists in Redis so every replica sees the same invalidations
type RedisListCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, prefix string, ttl time.Duration) *RedisListCache {
	if ttl <= 0 {
		ttl = utils.ListCacheTTL
	}
	return &RedisListCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisListCache) genKey(key string) string {
	return c.prefix + key + ":gen"
}

func (c *RedisListCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	bs, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observe(key, false)
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	observe(key, true)
	return true, nil
}

func (c *RedisListCache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get generation %s: %w", key, err)
	}
	return gen, nil
}

func (c *RedisListCache) Set(ctx context.Context, key string, gen int64, value any) (bool, error) {
	bs, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", key, err)
	}
	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{c.prefix + key, c.genKey(key)},
		strconv.FormatInt(gen, 10), bs, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis set %s: %w", key, err)
	}
	return stored == 1, nil
}

func (c *RedisListCache) Invalidate(ctx context.Context, key string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(key))
		pipe.Del(ctx, c.prefix+key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s: %w", key, err)
	}
	listCacheInvalidations.WithLabelValues(key).Inc()
	return nil
}

// MemoryListCache keeps cached lists in a bounded, expiring in-process LRU
type MemoryListCache struct {
	mu          sync.Mutex
	lru         *expirable.LRU[string, []byte]
	generations map[string]int64
}

func NewMemoryListCache(size int, ttl time.Duration) *MemoryListCache {
	if ttl <= 0 {
		ttl = utils.ListCacheTTL
	}
	return &MemoryListCache{
		lru:         expirable.NewLRU[string, []byte](size, nil, ttl),
		generations: make(map[string]int64),
	}
}

func (c *MemoryListCache) Get(_ context.Context, key string, dest any) (bool, error) {
	bs, ok := c.lru.Get(key)
	if !ok {
		observe(key, false)
		return false, nil
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	observe(key, true)
	return true, nil
}

func (c *MemoryListCache) Generation(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key], nil
}

func (c *MemoryListCache) Set(_ context.Context, key string, gen int64, value any) (bool, error) {
	bs, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != gen {
		return false, nil
	}
	c.lru.Add(key, bs)
	return true, nil
}

func (c *MemoryListCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	c.generations[key]++
	c.lru.Remove(key)
	c.mu.Unlock()

	listCacheInvalidations.WithLabelValues(key).Inc()
	return nil
}

// NoopListCache is used when caching is disabled; every read goes to the store
type NoopListCache struct{}

func (NoopListCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (NoopListCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (NoopListCache) Set(context.Context, string, int64, any) (bool, error) { return false, nil }

func (NoopListCache) Invalidate(context.Context, string) error { return nil }

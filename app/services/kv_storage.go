package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// KeyValueStorage is durable string key-value persistence
type KeyValueStorage interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// RedisKeyValueStorage persists values in Redis without expiry
type RedisKeyValueStorage struct {
	client *redis.Client
}

func NewRedisKeyValueStorage(client *redis.Client) *RedisKeyValueStorage {
	return &RedisKeyValueStorage{client: client}
}

func (s *RedisKeyValueStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisKeyValueStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisKeyValueStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// MemoryKeyValueStorage keeps values in process memory
type MemoryKeyValueStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKeyValueStorage() *MemoryKeyValueStorage {
	return &MemoryKeyValueStorage{values: make(map[string]string)}
}

func (s *MemoryKeyValueStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryKeyValueStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryKeyValueStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys
func (s *MemoryKeyValueStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// NamespacedStorage scopes every key of an underlying storage under a prefix
type NamespacedStorage struct {
	base   KeyValueStorage
	prefix string
}

func NewNamespacedStorage(base KeyValueStorage, prefix string) *NamespacedStorage {
	return &NamespacedStorage{base: base, prefix: prefix}
}

func (s *NamespacedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return s.base.Get(ctx, s.prefix+key)
}

func (s *NamespacedStorage) Set(ctx context.Context, key, value string) error {
	return s.base.Set(ctx, s.prefix+key, value)
}

func (s *NamespacedStorage) Remove(ctx context.Context, key string) error {
	return s.base.Remove(ctx, s.prefix+key)
}

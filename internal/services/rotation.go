package services

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Counter hands out increasing values per key, starting at 1.
type Counter interface {
	Next(ctx context.Context, key string) (int64, error)
}

type MemoryCounter struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{values: make(map[string]int64)}
}

func (c *MemoryCounter) Next(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key]++
	return c.values[key], nil
}

// RedisCounter shares the rotation between API replicas.
type RedisCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisCounter(client *redis.Client, prefix string) *RedisCounter {
	return &RedisCounter{client: client, prefix: prefix}
}

func (c *RedisCounter) Next(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, c.prefix+key).Result()
}

// rotate maps a 1-based counter value onto [0, n).
func rotate(next int64, n int) int {
	if n <= 0 {
		return 0
	}
	idx := (next - 1) % int64(n)
	if idx < 0 {
		idx += int64(n)
	}
	return int(idx)
}

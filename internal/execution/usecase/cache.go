package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"syncode-backend/pkg/piston"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// RuntimeCache holds the registry listing for a bounded time.
type RuntimeCache interface {
	// Get reports ok=false on a miss or an expired entry.
	Get(ctx context.Context) (runtimes []piston.Runtime, ok bool, err error)
	Set(ctx context.Context, runtimes []piston.Runtime) error
}

type MemoryRuntimeCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	runtimes []piston.Runtime
	expires  time.Time
}

func NewMemoryRuntimeCache(ttl time.Duration) *MemoryRuntimeCache {
	return &MemoryRuntimeCache{ttl: ttl, now: time.Now}
}

func (c *MemoryRuntimeCache) Get(_ context.Context) ([]piston.Runtime, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.runtimes == nil || !c.now().Before(c.expires) {
		return nil, false, nil
	}
	return c.runtimes, true, nil
}

func (c *MemoryRuntimeCache) Set(_ context.Context, runtimes []piston.Runtime) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runtimes = append([]piston.Runtime(nil), runtimes...)
	c.expires = c.now().Add(c.ttl)
	return nil
}

const runtimeCacheKey = "syncode:piston:runtimes"

// RedisRuntimeCache shares the listing between instances.
type RedisRuntimeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRuntimeCache(client *redis.Client, ttl time.Duration) *RedisRuntimeCache {
	return &RedisRuntimeCache{client: client, ttl: ttl}
}

func (c *RedisRuntimeCache) Get(ctx context.Context) ([]piston.Runtime, bool, error) {
	raw, err := c.client.Get(ctx, runtimeCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var runtimes []piston.Runtime
	if err := sonic.Unmarshal(raw, &runtimes); err != nil {
		return nil, false, err
	}
	return runtimes, true, nil
}

func (c *RedisRuntimeCache) Set(ctx context.Context, runtimes []piston.Runtime) error {
	raw, err := sonic.Marshal(runtimes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, runtimeCacheKey, raw, c.ttl).Err()
}

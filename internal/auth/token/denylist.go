package token

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token ids until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, exp := range d.entries {
		if !exp.After(now) {
			delete(d.entries, id)
		}
	}
	d.entries[jti] = until
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.entries[jti]
	return ok && exp.After(d.now()), nil
}

const denylistPrefix = "syncode:revoked:"

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+jti, 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

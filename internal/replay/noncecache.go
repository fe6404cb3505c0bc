package replay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const nonceKeyPrefix = "replay_nonce:"

// NonceCache records client-supplied request nonces for the duration of the
// freshness window. Claim is first-writer-wins.
type NonceCache interface {
	// Claim records the nonce, returning false if it was already claimed
	// within its TTL.
	Claim(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

// RedisNonceCache backs the nonce cache with Redis so replays are caught
// across gateway instances.
type RedisNonceCache struct {
	client *redis.Client
}

// NewRedisNonceCache constructs a Redis-backed nonce cache.
func NewRedisNonceCache(client *redis.Client) *RedisNonceCache {
	return &RedisNonceCache{client: client}
}

// Claim records the nonce via SET NX with the window TTL.
func (c *RedisNonceCache) Claim(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, nonceKeyPrefix+nonce, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim request nonce: %w", err)
	}
	return ok, nil
}

// MemoryNonceCache is a single-instance nonce cache for tests and the demo
// environment. Expired entries are pruned lazily on each claim.
type MemoryNonceCache struct {
	mu     sync.Mutex
	nonces map[string]time.Time
	now    func() time.Time
}

// NewMemoryNonceCache constructs an in-memory nonce cache.
func NewMemoryNonceCache() *MemoryNonceCache {
	return &MemoryNonceCache{
		nonces: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Claim records the nonce until its TTL elapses.
func (c *MemoryNonceCache) Claim(_ context.Context, nonce string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for n, expiry := range c.nonces {
		if now.After(expiry) {
			delete(c.nonces, n)
		}
	}

	if expiry, held := c.nonces[nonce]; held && !now.After(expiry) {
		return false, nil
	}
	c.nonces[nonce] = now.Add(ttl)
	return true, nil
}

// Verify interfaces are satisfied.
var (
	_ NonceCache = (*RedisNonceCache)(nil)
	_ NonceCache = (*MemoryNonceCache)(nil)
)

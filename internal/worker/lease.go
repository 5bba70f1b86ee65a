package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lease is a set-if-absent-with-expiry primitive used to make the
// sweep run at most once per period across a cluster. Any store with
// an atomic SETNX-with-TTL equivalent can back it. If the holder
// crashes, the TTL self-expires the token, so recovery needs no
// manual intervention.
type Lease interface {
	// Acquire claims the key for ttl. It reports false when another
	// holder already owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release deletes the key so the next period is not blocked by a
	// finished run.
	Release(ctx context.Context, key string) error
}

// RedisLease backs Lease with Redis SETNX.
type RedisLease struct {
	client *redis.Client
}

// NewRedisLease returns a Lease over the given Redis client.
func NewRedisLease(client *redis.Client) *RedisLease {
	return &RedisLease{client: client}
}

// Acquire claims key with SET NX EX.
func (l *RedisLease) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "locked", ttl).Result()
}

// Release deletes key.
func (l *RedisLease) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

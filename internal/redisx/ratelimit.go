package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter: fixed window counter (INCR + EXPIRE) per scope & client.
type Limiter struct {
	RDB    *redis.Client
	Scope  string
	Limit  int
	Window time.Duration
}

func NewLimiter(rdb *redis.Client, scope string, limit int) *Limiter {
	return &Limiter{RDB: rdb, Scope: scope, Limit: limit, Window: RateLimitWindow}
}

// Allow reports whether client may proceed. Redis errors allow the request.
func (l *Limiter) Allow(ctx context.Context, client string) (bool, error) {
	if l == nil || l.RDB == nil || l.Limit <= 0 {
		return true, nil
	}
	key := fmt.Sprintf(KeyRateLimit, l.Scope, client)
	count, err := l.RDB.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	// key baru -> pasang masa berlaku window
	if count == 1 {
		if err := l.RDB.Expire(ctx, key, l.Window).Err(); err != nil {
			return true, err
		}
	}
	return count <= int64(l.Limit), nil
}

package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache: read-through cache untuk endpoint statistik & top-rated.
// Semua error Redis di-log lalu diabaikan (fail open), DB tetap sumber kebenaran.
type StatsCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = TTLStatsCache
	}
	return &StatsCache{RDB: rdb, TTL: ttl}
}

func TopRatedKey(minReviews, limit int) string {
	return fmt.Sprintf(KeyTopRated, minReviews, limit)
}

// Get decodes the cached value into dst; false on miss or any error.
func (c *StatsCache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.RDB == nil {
		return false
	}
	s, err := c.RDB.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("stats cache get %s: %v", key, err)
		}
		return false
	}
	return json.Unmarshal([]byte(s), dst) == nil
}

func (c *StatsCache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.RDB == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.RDB.Set(ctx, key, b, c.TTL).Err(); err != nil {
		log.Printf("stats cache set %s: %v", key, err)
	}
}

// Invalidate drops every cached aggregate. Dipanggil setelah tiap write.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.RDB == nil {
		return
	}
	keys := []string{KeyProductStats, KeyReviewStats}
	iter := c.RDB.Scan(ctx, 0, KeyTopRatedPattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("stats cache scan: %v", err)
	}
	if err := c.RDB.Del(ctx, keys...).Err(); err != nil {
		log.Printf("stats cache invalidate: %v", err)
	}
}

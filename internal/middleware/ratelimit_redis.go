package middleware

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window limiter on a shared store, so the limit
// holds across bot instances. INCR creates the window key, EXPIRE bounds it.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

func (r *RedisRateLimiter) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count, err := r.client.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		log.Printf("[ratelimit] redis unavailable, allowing request: %v", err)
		return true
	}
	if count == 1 {
		r.client.Expire(ctx, "ratelimit:"+key, r.window)
	}
	return count <= int64(r.limit)
}

package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window limiter backed by redis INCR/EXPIRE.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// ByIP limits per client address. A nil redis client disables limiting.
func (r *RateLimiter) ByIP() fiber.Handler {
	return r.byKey(func(c *fiber.Ctx) string { return c.IP() })
}

func (r *RateLimiter) byKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r == nil || r.rdb == nil {
			return c.Next()
		}
		redisKey := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		count, err := r.rdb.Incr(c.Context(), redisKey).Result()
		if err != nil {
			// The limiter is protective, not load-bearing: fail open.
			return c.Next()
		}
		if count == 1 {
			r.rdb.Expire(c.Context(), redisKey, r.window)
		}
		if count > int64(r.limit) {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}

package httpx

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiters shares fixed-window counters between every replica pointed
// at the same Redis. Each route gets its own key namespace.
type RedisLimiters struct {
	Client redis.UniversalClient
	Prefix string

	// Now is overridable for tests.
	Now func() time.Time
}

func (f RedisLimiters) New(name string, config RateLimitConfig) Limiter {
	prefix := f.Prefix
	if prefix == "" {
		prefix = "clubhouse:ratelimit"
	}
	now := f.Now
	if now == nil {
		now = time.Now
	}
	return &redisLimiter{
		client: f.Client,
		prefix: prefix + ":" + name,
		config: config,
		now:    now,
	}
}

type redisLimiter struct {
	client redis.UniversalClient
	prefix string
	config RateLimitConfig
	now    func() time.Time
}

func (l *redisLimiter) Config() RateLimitConfig { return l.config }

// Allow counts the request in the current window with INCR and makes sure the
// window key expires with the window. The limit is RequestsPerWindow; Burst
// has no meaning for a fixed window.
func (l *redisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	window := l.config.Window
	start := now.Truncate(window)
	windowKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, start.UnixMilli())

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.PExpire(ctx, windowKey, window)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("redis rate limit: %w", err)
	}

	if incr.Val() > int64(l.config.RequestsPerWindow) {
		return Decision{Allowed: false, RetryAfter: start.Add(window).Sub(now)}, nil
	}
	return Decision{Allowed: true}, nil
}

package httpx

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiters hands out token bucket limiters kept in process memory.
// Counters are per replica; use RedisLimiters when running more than one.
type MemoryLimiters struct{}

func (MemoryLimiters) New(_ string, config RateLimitConfig) Limiter {
	return NewMemoryLimiter(config)
}

// memoryLimiter manages rate limiters for different keys
type memoryLimiter struct {
	config   RateLimitConfig
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter returns a token bucket limiter refilling at
// RequestsPerWindow/Window with the configured burst.
func NewMemoryLimiter(config RateLimitConfig) Limiter {
	return &memoryLimiter{
		config:      config,
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}
}

func (rl *memoryLimiter) Config() RateLimitConfig { return rl.config }

func (rl *memoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	limiter := rl.getLimiter(key)
	if limiter.Allow() {
		return Decision{Allowed: true}, nil
	}

	// Peek at when the next token lands without consuming it.
	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	return Decision{Allowed: false, RetryAfter: delay}, nil
}

// getLimiter retrieves or creates a rate limiter for the given key
func (rl *memoryLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	actual, _ := rl.limiters.LoadOrStore(key, limiter)

	rl.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full again, i.e. keys that
// have gone quiet, so ephemeral client addresses do not pile up.
func (rl *memoryLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

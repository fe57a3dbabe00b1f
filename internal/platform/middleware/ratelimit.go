package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultRateLimitConfig is generous enough for a clinic front desk
// refreshing schedules, while still catching runaway clients.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200}
}

type bucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	rate   float64
	burst  float64
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.burst {
		b.tokens = b.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// secondsUntilToken estimates how long the client should wait before
// retrying. Always at least one second so Retry-After stays meaningful.
func (b *bucket) secondsUntilToken() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rate <= 0 {
		return 1
	}
	return int((1-b.tokens)/b.rate) + 1
}

// RateLimit applies a token bucket per client IP.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	var (
		mu      sync.RWMutex
		buckets = make(map[string]*bucket)
	)

	bucketFor := func(ip string) *bucket {
		mu.RLock()
		b, ok := buckets[ip]
		mu.RUnlock()
		if ok {
			return b
		}

		mu.Lock()
		defer mu.Unlock()
		if b, ok := buckets[ip]; ok {
			return b
		}
		b = &bucket{
			tokens: float64(cfg.BurstSize),
			burst:  float64(cfg.BurstSize),
			rate:   cfg.RequestsPerSecond,
			last:   time.Now(),
		}
		buckets[ip] = b
		return b
	}

	limitHeader := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b := bucketFor(c.RealIP())
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limitHeader)

			if !b.take() {
				h.Set("Retry-After", strconv.Itoa(b.secondsUntilToken()))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

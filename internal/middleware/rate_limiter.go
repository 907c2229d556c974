// internal/middleware/rate_limiter.go
package middleware

import (
	"strconv"
	"sync"
	"time"

	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// window tracks one IP's request count inside a fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a per-process fixed-window limiter keyed by client IP.
// Each instance owns its counters and its eviction goroutine.
type RateLimiter struct {
	max     int
	period  time.Duration
	message string
	now     func() time.Time

	mu      sync.Mutex
	windows map[string]*window

	stop chan struct{}
	once sync.Once
}

func NewRateLimiter(max int, period time.Duration, message string) *RateLimiter {
	if message == "" {
		message = "Too many requests, please try again later"
	}
	rl := &RateLimiter{
		max:     max,
		period:  period,
		message: message,
		now:     time.Now,
		windows: make(map[string]*window),
		stop:    make(chan struct{}),
	}
	go rl.evict()
	return rl
}

// Allow counts a request from key and reports whether it fits the window,
// together with the remaining budget and when the window resets.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.period)}
		rl.windows[key] = w
	}
	w.count++

	remaining := rl.max - w.count
	if remaining < 0 {
		remaining = 0
	}
	return w.count <= rl.max, remaining, w.resetAt
}

// Middleware applies the limiter to every request by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, remaining, resetAt := rl.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			retry := int(resetAt.Sub(rl.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			response.FromError(c, xerrors.New(xerrors.KindRateLimited, rl.message))
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) evict() {
	interval := rl.period
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.windows {
				if !now.Before(w.resetAt) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Close stops the eviction loop.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

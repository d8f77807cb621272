package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RateLimiter is an in-memory sliding-window request limiter keyed by
// user id (when authenticated) or client IP. State lives in this process
// only; running more than one instance needs a shared counter store
// instead.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	window time.Duration
	max    int
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		window: window,
		max:    max,
	}
}

// Allow records a hit for key and reports whether it is within the window cap.
func (rl *RateLimiter) Allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	kept := rl.hits[key][:0]
	for _, ts := range rl.hits[key] {
		if now.Sub(ts) < rl.window {
			kept = append(kept, ts)
		}
	}
	rl.hits[key] = kept

	if len(kept) >= rl.max {
		return false
	}
	rl.hits[key] = append(kept, now)
	return true
}

// RateLimitMiddleware returns a fiber handler enforcing the limiter.
func RateLimitMiddleware(rl *RateLimiter, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if userID, ok := c.Locals("userId").(uint); ok {
			key = fmt.Sprintf("user-%d", userID)
		}

		if !rl.Allow(key, time.Now()) {
			retryAfter := int(rl.window.Seconds())
			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return JsonResponse(c, fiber.StatusTooManyRequests, false, message, fiber.Map{
				"retry_after_seconds": retryAfter,
			})
		}
		return c.Next()
	}
}

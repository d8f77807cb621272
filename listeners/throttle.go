package listeners

import (
	"sync"
	"time"
)

// EmailThrottle caps emails per recipient inside a sliding window.
// Events beyond the cap are dropped, not queued; this guards against
// notification storms (a sweep hitting many overdue rows for one
// address), not delivery guarantees.
type EmailThrottle struct {
	mu     sync.Mutex
	sent   map[string][]time.Time
	max    int
	window time.Duration
}

func NewEmailThrottle(max int, window time.Duration) *EmailThrottle {
	return &EmailThrottle{
		sent:   make(map[string][]time.Time),
		max:    max,
		window: window,
	}
}

// Allow reports whether another email may go to this address now, and
// records it if so.
func (t *EmailThrottle) Allow(email string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.sent[email][:0]
	for _, ts := range t.sent[email] {
		if now.Sub(ts) < t.window {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= t.max {
		t.sent[email] = kept
		return false
	}

	t.sent[email] = append(kept, now)
	return true
}

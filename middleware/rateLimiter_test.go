package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToMax(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Now()

	assert.True(t, rl.Allow("user-1", now))
	assert.True(t, rl.Allow("user-1", now.Add(time.Second)))
	assert.True(t, rl.Allow("user-1", now.Add(2*time.Second)))
	assert.False(t, rl.Allow("user-1", now.Add(3*time.Second)))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	assert.True(t, rl.Allow("user-1", now))
	assert.False(t, rl.Allow("user-1", now))
	assert.True(t, rl.Allow("user-2", now))
	assert.True(t, rl.Allow("10.0.0.1", now))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Now()

	assert.True(t, rl.Allow("user-1", now))
	assert.True(t, rl.Allow("user-1", now.Add(time.Second)))
	assert.False(t, rl.Allow("user-1", now.Add(59*time.Second)))

	// first hit ages out after the window
	assert.True(t, rl.Allow("user-1", now.Add(61*time.Second)))
}

package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("10.0.0.1", now))
	}
	assert.False(t, rl.allow("10.0.0.1", now))

	// Other clients have their own window
	assert.True(t, rl.allow("10.0.0.2", now))
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	assert.True(t, rl.allow("10.0.0.1", now))
	assert.False(t, rl.allow("10.0.0.1", now.Add(30*time.Second)))
	assert.True(t, rl.allow("10.0.0.1", now.Add(61*time.Second)))
}

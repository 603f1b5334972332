package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per client IP over a fixed window.
// Best effort only: state is per process and resets on restart.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*hitWindow
}

type hitWindow struct {
	count int
	start time.Time
}

// NewRateLimiter allows limit requests per client within window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		hits:   map[string]*hitWindow{},
	}
}

// Middleware rejects clients over the limit with 429
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) allow(key string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.hits[key]
	if !ok || now.Sub(row.start) > r.window {
		r.prune(now)
		row = &hitWindow{start: now}
		r.hits[key] = row
	}
	row.count++
	return row.count <= r.limit
}

// prune drops expired windows; called under the lock
func (r *RateLimiter) prune(now time.Time) {
	for k, row := range r.hits {
		if now.Sub(row.start) > r.window {
			delete(r.hits, k)
		}
	}
}

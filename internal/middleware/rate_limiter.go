package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// IPRateLimiter is an in-memory sliding-window limiter keyed by client IP.
// It blunts brute-force guessing of token codes and login credentials; it is
// defense in depth, not part of the exactly-once argument. In a multi-instance
// deployment each instance keeps its own window.
type IPRateLimiter struct {
	max    int
	window time.Duration

	mu    sync.Mutex
	state map[string][]time.Time
	now   func() time.Time
}

// NewIPRateLimiter creates a limiter allowing max requests per window per IP
func NewIPRateLimiter(max int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		max:    max,
		window: window,
		state:  make(map[string][]time.Time),
		now:    time.Now,
	}
	go l.cleanupLoop()
	return l
}

// Allow records an attempt for key and reports whether it is within the limit
func (l *IPRateLimiter) Allow(key string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.state[key][:0]
	for _, t := range l.state[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= l.max {
		l.state[key] = recent
		return false
	}
	l.state[key] = append(recent, now)
	return true
}

// cleanupLoop drops idle keys so the map does not grow unbounded
func (l *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := l.now().Add(-l.window)
		l.mu.Lock()
		for key, stamps := range l.state {
			idle := true
			for _, t := range stamps {
				if t.After(cutoff) {
					idle = false
					break
				}
			}
			if idle {
				delete(l.state, key)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware returns a gin handler enforcing the limit per client IP
func (l *IPRateLimiter) Middleware(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientWindow struct {
	count       int
	windowStart time.Time
}

// RateLimiter counts requests per client IP in fixed windows. Each client
// gets its own window so one noisy IP cannot reset the clock for everyone.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	rate    int           // requests per window
	window  time.Duration // window length
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		rate:    rate,
		window:  window,
	}
}

// Allow records a request for the client and reports whether it fits the
// current window.
func (l *RateLimiter) Allow(clientIP string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[clientIP]
	if !ok || now.Sub(cw.windowStart) > l.window {
		l.clients[clientIP] = &clientWindow{count: 1, windowStart: now}
		l.pruneLocked(now)
		return true
	}

	if cw.count >= l.rate {
		return false
	}
	cw.count++
	return true
}

// pruneLocked drops clients whose window has long expired so the map does
// not grow without bound. Must be called with the lock held.
func (l *RateLimiter) pruneLocked(now time.Time) {
	for ip, cw := range l.clients {
		if now.Sub(cw.windowStart) > 2*l.window {
			delete(l.clients, ip)
		}
	}
}

// RateLimit middleware limits requests per IP
func RateLimit(rate int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(rate, window)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !limiter.Allow(clientIP) {
			slog.Warn("rate limit exceeded",
				"client_ip", clientIP,
				"request_id", GetRequestID(c),
			)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"sync"

	"github.com/admin-concierge/apperrors"
	"github.com/admin-concierge/config"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether key may make a request now
func (rl *IPRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	limiter, exists := rl.limiters[key]
	if !exists {
		if len(rl.limiters) >= maxTrackedClients {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}

// RateLimit rejects clients that exceed cfg with 429
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := NewIPRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			_ = c.Error(apperrors.RateLimited("Too many requests from this IP, please try again later."))
			c.Abort()
			return
		}
		c.Next()
	}
}

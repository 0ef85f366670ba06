package router

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/logger"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// LoginLimiter throttles login attempts per client IP with a token bucket.
type LoginLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewLoginLimiter creates a limiter. A non-positive rate disables throttling.
func NewLoginLimiter(rps float64, burst int) *LoginLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// Allow consumes one token for ip.
func (l *LoginLimiter) Allow(ip string) bool {
	if l.rate <= 0 {
		return true
	}
	return l.get(ip).Allow()
}

func (l *LoginLimiter) get(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists = l.limiters[key]; exists {
		return limiter
	}

	if len(l.limiters) >= maxTrackedClients {
		l.limiters = make(map[string]*rate.Limiter)
	}
	limiter = rate.NewLimiter(l.rate, l.burst)
	l.limiters[key] = limiter
	return limiter
}

// Middleware calls onLimited and aborts when the client is over its budget.
func (l *LoginLimiter) Middleware(onLimited gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			logger.Warnw("login_rate_limited", "ip", ip)
			onLimited(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

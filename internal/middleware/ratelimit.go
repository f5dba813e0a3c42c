package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 20,
		Burst:             40,
	}
}

type rateLimiter struct {
	sync.Mutex
	limiters map[string]*clientLimiter
	config   RateLimitConfig
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(config RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		limiters: make(map[string]*clientLimiter),
		config:   config,
	}
	go rl.cleanup()
	return rl
}

func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)

		rl.Lock()
		for ip, cl := range rl.limiters {
			if time.Since(cl.lastSeen) > 3*time.Minute {
				delete(rl.limiters, ip)
			}
		}
		rl.Unlock()
	}
}

func (rl *rateLimiter) get(ip string) *rate.Limiter {
	rl.Lock()
	defer rl.Unlock()

	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.limiters[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// RateLimit limits per client IP with a token bucket.
func (rl *rateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "rate limit exceeded",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}
		c.Next()
	}
}

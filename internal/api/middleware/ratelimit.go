package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
)

// clientLimiter stores rate limiters for a specific client.
type clientLimiter struct {
	softLimiter *rate.Limiter
	hardLimiter *rate.Limiter
	lastSeen    time.Time
}

// RateLimiterMiddleware applies a soft/hard token-bucket pair per client IP.
// The soft bucket delays bursty clients; the hard bucket rejects abusive
// ones outright.
type RateLimiterMiddleware struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	cfg     *config.Config
}

// NewRateLimiterMiddleware creates a new RateLimiterMiddleware and starts
// the background cleanup of idle client entries.
func NewRateLimiterMiddleware(cfg *config.Config) *RateLimiterMiddleware {
	rm := &RateLimiterMiddleware{
		clients: make(map[string]*clientLimiter),
		cfg:     cfg,
	}
	go rm.cleanupClients()
	return rm
}

func (rm *RateLimiterMiddleware) getClientLimiter(ip string) *clientLimiter {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	cl, ok := rm.clients[ip]
	if !ok {
		cl = &clientLimiter{
			softLimiter: rate.NewLimiter(rate.Limit(rm.cfg.RateLimitSoftRefillRate), rm.cfg.RateLimitSoftBucketSize),
			hardLimiter: rate.NewLimiter(rate.Limit(rm.cfg.RateLimitHardRefillRate), rm.cfg.RateLimitHardBucketSize),
		}
		rm.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl
}

// cleanupClients periodically drops limiters for clients not seen recently.
func (rm *RateLimiterMiddleware) cleanupClients() {
	for {
		time.Sleep(time.Minute)
		rm.mu.Lock()
		for ip, cl := range rm.clients {
			if time.Since(cl.lastSeen) > 3*time.Minute {
				delete(rm.clients, ip)
			}
		}
		rm.mu.Unlock()
	}
}

// Limit returns the Gin middleware applying the limiter pair.
func (rm *RateLimiterMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		cl := rm.getClientLimiter(c.ClientIP())

		if !cl.hardLimiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		// The soft limiter smooths bursts by making the request wait for a
		// token instead of rejecting it.
		if err := cl.softLimiter.Wait(c.Request.Context()); err != nil {
			c.AbortWithStatus(http.StatusRequestTimeout)
			return
		}

		c.Next()
	}
}

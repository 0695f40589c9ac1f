package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pulmosight/lungrisk/internal/monitoring"
)

// RequestID attaches a unique id to every request and echoes it in a header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// SecurityHeaders adds standard hardening headers to all responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// ipLimiter tracks one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// RateLimitByIP rejects clients exceeding maxPerMin requests per minute.
func RateLimitByIP(maxPerMin int) gin.HandlerFunc {
	l := &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(float64(maxPerMin) / 60.0),
		burst:    maxPerMin/6 + 1,
	}

	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// RequestLogging logs every request and counts it in the metrics.
func RequestLogging(logger *monitoring.Logger, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestID := c.GetString("request_id")
		status := c.Writer.Status()
		logger.RequestLogger(c.Request.Method, c.FullPath(), c.ClientIP(), requestID, status, time.Since(start))
		metrics.RequestsTotal.WithLabelValues(c.FullPath(), http.StatusText(status)).Inc()
	}
}

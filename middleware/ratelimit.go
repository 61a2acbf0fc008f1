// File: middleware/ratelimit.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"zerosync-web/logger"
)

// NewLimiter builds an in-memory, per-IP limiter for rate.
func NewLimiter(rate limiter.Rate) *limiter.Limiter {
	return limiter.New(memory.NewStore(), rate)
}

// RateLimit rejects clients that exceed the limiter's rate with 429.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			logger.Error.Printf("[RateLimit] limiter lookup failed for ip=%s: %v", ip, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
			return
		}

		if lctx.Reached {
			logger.Warn.Printf("[RateLimit] limit reached for ip=%s (limit=%d)", ip, lctx.Limit)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}

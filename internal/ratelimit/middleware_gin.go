package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinMiddleware throttles one route by client IP. With no redis client the
// middleware is a pass-through, so a missing redis address never takes the
// endpoint down.
func GinMiddleware(bucket *TokenBucket, log *zap.Logger, prefix string, rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bucket == nil {
			c.Next()
			return
		}
		key := prefix + ":" + c.ClientIP()
		res, err := bucket.Allow(c.Request.Context(), key, rate, burst)
		if err != nil {
			// Fail open: a redis outage must not block payments.
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"code": "rate_limited", "message": "too many requests"},
			})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/redis"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/response"
)

// RateLimit caps requests per client IP and route using a Redis window.
// A nil client or a Redis error lets the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(rdb, limit, window, func(c *gin.Context) {
		response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, "too many requests, try again later")
	})
}

// PageRateLimit is RateLimit for form posts: the rejection is a flash and a redirect back.
func PageRateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(rdb, limit, window, func(c *gin.Context) {
		AddFlash(c, FlashError, "Too many attempts. Please wait a minute and try again.")
		c.Redirect(http.StatusFound, c.Request.URL.Path)
	})
}

func rateLimit(rdb *redis.Client, limit int, window time.Duration, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			reject(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

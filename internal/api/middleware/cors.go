package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS lets the scanner kiosks call the JSON API under prefix from their own
// origins. The admin pages are same-origin and never get CORS headers.
// Kiosks authenticate with a bearer token, so credentials are not allowed.
func CORS(prefix string, allowOrigins []string) gin.HandlerFunc {
	kiosks := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		kiosks[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, prefix) {
			c.Next()
			return
		}

		if origin := c.GetHeader("Origin"); kiosks[origin] {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")
			h.Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

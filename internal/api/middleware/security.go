package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// pages load only their own stylesheet; QR badges are served as PNG from /students/:id/qr.png
	pageCSP = "default-src 'self'; img-src 'self' data:; style-src 'self'; script-src 'none'; form-action 'self'; base-uri 'none'; frame-ancestors 'none'"
	apiCSP  = "default-src 'none'; frame-ancestors 'none'"
)

// SecurityHeaders hardens every response. Pages and API answers carry
// student records, so neither may be cached; static assets may.
func SecurityHeaders(apiPrefix, staticPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		path := c.Request.URL.Path
		switch {
		case strings.HasPrefix(path, apiPrefix):
			h.Set("Content-Security-Policy", apiCSP)
			h.Set("Cache-Control", "no-store")
		case strings.HasPrefix(path, staticPrefix):
			h.Set("Content-Security-Policy", pageCSP)
		default:
			h.Set("Content-Security-Policy", pageCSP)
			h.Set("Cache-Control", "no-store")
		}

		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", "max-age=31536000")
		}

		c.Next()
	}
}

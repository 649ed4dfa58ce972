package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/response"
)

// BodyLimits request body caps. Forms and scans are small; the student
// spreadsheet and holiday calendar uploads get Upload.
type BodyLimits struct {
	Form         int64
	Upload       int64
	UploadRoutes []string // gin route patterns, e.g. /students/import
	APIPrefix    string
}

// BodyLimit rejects oversized bodies with 413: JSON under the API prefix,
// tooLargePage everywhere else.
func BodyLimit(limits BodyLimits, tooLargePage gin.HandlerFunc) gin.HandlerFunc {
	uploads := make(map[string]bool, len(limits.UploadRoutes))
	for _, route := range limits.UploadRoutes {
		uploads[route] = true
	}

	reject := func(c *gin.Context) {
		if tooLargePage == nil || strings.HasPrefix(c.Request.URL.Path, limits.APIPrefix) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "request body too large")
			c.Abort()
			return
		}
		tooLargePage(c)
		c.Abort()
	}

	return func(c *gin.Context) {
		limit := limits.Form
		if uploads[c.FullPath()] && limits.Upload > limit {
			limit = limits.Upload
		}
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			reject(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, err := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(err.Err, &tooLarge) {
				reject(c)
				return
			}
		}
	}
}

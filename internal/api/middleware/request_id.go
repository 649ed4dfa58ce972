package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// caller supplied IDs longer than this are replaced
const requestIDMaxLen = 64

// RequestID reuses the X-Request-ID a kiosk sends with its scans, so a scan
// can be traced from the kiosk log to ours, or generates a UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}

// RequestIDFrom returns the ID assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// validRequestID accepts letters, digits and - _ . : only; anything else
// would end up verbatim in the logs table.
func validRequestID(id string) bool {
	if id == "" || len(id) > requestIDMaxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}

package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	apperrors "github.com/BelowZeroPortfolio/school-scan-sub001/pkg/errors"
)

const (
	// CSRFField is the hidden form field carrying the token.
	CSRFField  = "_csrf"
	csrfHeader = "X-CSRF-Token"
	csrfCtxKey = "csrf_token"
)

// CSRF keeps a per-session token and rejects unsafe requests that do not echo it
// back in the _csrf field or the X-CSRF-Token header. onFailure renders the
// rejection; nil writes a plain 403.
func CSRF(onFailure gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(sessionCSRFKey).(string)
		if token == "" {
			token = newCSRFToken()
			s.Set(sessionCSRFKey, token)
			_ = s.Save()
		}
		c.Set(csrfCtxKey, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		sent := c.PostForm(CSRFField)
		if sent == "" {
			sent = c.GetHeader(csrfHeader)
		}
		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			_ = c.Error(apperrors.ErrCSRFTokenInvalid)
			if onFailure != nil {
				onFailure(c)
			} else {
				c.String(http.StatusForbidden, apperrors.ErrCSRFTokenInvalid.Error())
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFToken returns the token set by CSRF for the current request.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfCtxKey)
}

func newCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: read random: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

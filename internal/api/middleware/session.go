package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/config"
)

// session keys
const (
	sessionUserKey = "user_id"
	sessionCSRFKey = "csrf_token"
)

// flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

var flashKinds = []string{FlashSuccess, FlashError}

// Flash a one-shot message shown on the next rendered page
type Flash struct {
	Kind    string
	Message string
}

// Sessions installs the signed cookie store used by the admin pages.
func Sessions(cfg *config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: sameSiteMode(cfg.SameSite),
	})
	return sessions.Sessions(cfg.Name, store)
}

func sameSiteMode(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SessionUserID returns the signed-in user's ID, or "" for a guest.
func SessionUserID(c *gin.Context) string {
	if !hasSession(c) {
		return ""
	}
	id, _ := sessions.Default(c).Get(sessionUserKey).(string)
	return id
}

// StartSession stores userID and rotates the CSRF token.
func StartSession(c *gin.Context, userID string) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(sessionUserKey, userID)
	s.Set(sessionCSRFKey, newCSRFToken())
	return s.Save()
}

// EndSession signs the user out. The cookie stays so a flash can follow.
func EndSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(sessionCSRFKey, newCSRFToken())
	return s.Save()
}

// AddFlash queues a message for the next page and saves the session.
// Messages are stored as []string per kind.
func AddFlash(c *gin.Context, kind, message string) {
	if !hasSession(c) {
		return
	}
	s := sessions.Default(c)
	key := flashKey(kind)
	queued, _ := s.Get(key).([]string)
	s.Set(key, append(queued, message))
	_ = s.Save()
}

// Flashes pops every queued message, successes first.
func Flashes(c *gin.Context) []Flash {
	if !hasSession(c) {
		return nil
	}
	s := sessions.Default(c)
	var out []Flash
	for _, kind := range flashKinds {
		key := flashKey(kind)
		queued, _ := s.Get(key).([]string)
		if len(queued) == 0 {
			continue
		}
		for _, msg := range queued {
			out = append(out, Flash{Kind: kind, Message: msg})
		}
		s.Delete(key)
	}
	if len(out) > 0 {
		_ = s.Save()
	}
	return out
}

// hasSession is false on routes mounted outside Sessions, such as the JSON API.
func hasSession(c *gin.Context) bool {
	_, ok := c.Get(sessions.DefaultKey)
	return ok
}

func flashKey(kind string) string {
	return "_flash_" + kind
}

package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	apperrors "github.com/BelowZeroPortfolio/school-scan-sub001/pkg/errors"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/jwt"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/response"
)

// context keys shared with the handlers
const (
	CtxUserID      = "user_id"
	CtxRole        = "role"
	CtxClaims      = "claims"
	CtxCurrentUser = "current_user"
)

// SessionUserLoader reloads the signed-in user on every page request.
type SessionUserLoader interface {
	CurrentUser(ctx context.Context, userID string) (*dto.SessionUser, error)
}

// TokenRevocationChecker reports whether a scanner token was signed out.
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// ────────────────────── Admin pages ──────────────────────

// SessionAuth sends guests to /login and injects the current user.
// A user that was deleted or deactivated is signed out.
func SessionAuth(users SessionUserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := SessionUserID(c)
		if userID == "" {
			redirectToLogin(c)
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			_ = EndSession(c)
			AddFlash(c, FlashError, "Your session has ended. Please sign in again.")
			redirectToLogin(c)
			return
		}

		c.Set(CtxCurrentUser, user)
		c.Set(CtxUserID, user.ID)
		c.Set(CtxRole, user.Role)
		c.Next()
	}
}

// RequireRole redirects users whose role is not listed back to the dashboard.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hasRole(c, roles) {
			c.Next()
			return
		}
		_ = c.Error(apperrors.ErrForbidden)
		AddFlash(c, FlashError, "You do not have access to that page.")
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}

// CurrentUser returns the user injected by SessionAuth.
func CurrentUser(c *gin.Context) *dto.SessionUser {
	v, ok := c.Get(CtxCurrentUser)
	if !ok {
		return nil
	}
	u, _ := v.(*dto.SessionUser)
	return u
}

func redirectToLogin(c *gin.Context) {
	target := "/login"
	if c.Request.Method == http.MethodGet && c.Request.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// ────────────────────── Scanner API ──────────────────────

// JWTAuth validates Authorization: Bearer <token> and rejects revoked tokens.
// A failing revocation store lets the request through.
func JWTAuth(jwtMgr *jwt.Manager, revoked TokenRevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing Authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Authorization header must be Bearer <token>")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "token is invalid or expired")
			c.Abort()
			return
		}

		if revoked != nil && claims.ID != "" {
			if isRevoked, err := revoked.IsTokenRevoked(c.Request.Context(), claims.ID); err == nil && isRevoked {
				response.Unauthorized(c, "token has been signed out")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RoleAuth rejects API callers whose role is not listed.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CtxRole); !exists {
			response.Unauthorized(c, "not authenticated")
			c.Abort()
			return
		}
		if !hasRole(c, allowedRoles) {
			_ = c.Error(apperrors.ErrForbidden)
			response.Forbidden(c, "your role may not use this endpoint")
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasRole(c *gin.Context, roles []string) bool {
	role := c.GetString(CtxRole)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/jwt"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/response"
)

// MustGetUserID reads the user_id set by JWTAuth. When it is missing a 401
// is written and ok is false; the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetClaims reads the token claims set by JWTAuth.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, "not authenticated")
		return nil, false
	}
	return claims, true
}

// pageUserID is the signed-in user on admin pages. SessionAuth guarantees it.
func pageUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

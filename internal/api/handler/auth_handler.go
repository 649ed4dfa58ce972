package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

const loginPage = "auth/login"

// AuthHandler sign-in and sign-out of the admin pages
type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// LoginPage GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.SessionUserID(c) != "" {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, loginPage, gin.H{
		"Title":    "Sign in",
		"Next":     safeRedirect(c.Query("next"), ""),
		"Username": "",
	})
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginRequest
	next := safeRedirect(c.PostForm("next"), "/")
	data := gin.H{"Title": "Sign in", "Next": next, "Username": c.PostForm("username")}

	if errs := bindForm(c, &form); errs != nil {
		renderForm(c, loginPage, data, errs)
		return
	}

	user, err := h.authSvc.Login(c.Request.Context(), &form, clientMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountDisabled):
			data["Errors"] = []string{err.Error()}
			render(c, http.StatusUnauthorized, loginPage, data)
		default:
			serverError(c, err)
		}
		return
	}

	if err := middleware.StartSession(c, user.ID); err != nil {
		serverError(c, err)
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "Welcome back, "+user.FullName+".", next)
}

// Logout POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.authSvc.Logout(c.Request.Context(), pageUserID(c), clientMeta(c))
	if err := middleware.EndSession(c); err != nil {
		serverError(c, err)
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "You have been signed out.", "/login")
}

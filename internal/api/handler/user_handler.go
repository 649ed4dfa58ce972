package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

const (
	userListPage = "users/list"
	userFormPage = "users/form"
)

var userFormErrors = []error{
	service.ErrUsernameTaken,
	service.ErrPasswordRequired,
	service.ErrPasswordTooShort,
	service.ErrRoleInvalid,
	service.ErrSelfLockout,
}

// UserHandler admin management of staff accounts
type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List GET /users
func (h *UserHandler) List(c *gin.Context) {
	var req dto.UserListRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, userListPage, gin.H{
		"Title":  "Users",
		"Page":   withQuery(c, page),
		"Filter": req,
		"Roles":  model.AllRoles,
	})
}

// New GET /users/new
func (h *UserHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", &dto.UserForm{Role: model.RoleTeacher, IsActive: true}, nil)
}

// Create POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var form dto.UserForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, "", &form, errs)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, userFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, "", &form, msgs)
			return
		}
		serverError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, fmt.Sprintf("Account %s was created.", user.Username), "/users")
}

// Edit GET /users/:id/edit
func (h *UserHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	h.renderForm(c, http.StatusOK, id, &dto.UserForm{
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}, nil)
}

// Update POST /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var form dto.UserForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, id, &form, errs)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, userFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, id, &form, msgs)
			return
		}
		h.handleUserError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, fmt.Sprintf("Account %s was updated.", user.Username), "/users")
}

// ResetPassword POST /users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id := c.Param("id")
	back := "/users/" + id + "/edit"

	var form dto.ResetPasswordForm
	if errs := bindForm(c, &form); errs != nil {
		redirectWithFlash(c, middleware.FlashError, strings.Join(errs, " "), back)
		return
	}

	if err := h.userSvc.ResetPassword(c.Request.Context(), id, form.Password, pageUserID(c)); err != nil {
		if msgs, ok := formMessages(err, userFormErrors...); ok {
			redirectWithFlash(c, middleware.FlashError, strings.Join(msgs, " "), back)
			return
		}
		h.handleUserError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, "The password was reset.", back)
}

// ── helpers ──

func (h *UserHandler) renderForm(c *gin.Context, status int, id string, form *dto.UserForm, errs []string) {
	form.Password = ""
	title, action := "Add user", "/users"
	if id != "" {
		title, action = "Edit user", "/users/"+id
	}
	render(c, status, userFormPage, gin.H{
		"Title":  title,
		"Action": action,
		"ID":     id,
		"Form":   form,
		"Roles":  model.AllRoles,
		"Errors": errs,
	})
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		notFound(c, "The user")
	default:
		serverError(c, err)
	}
}

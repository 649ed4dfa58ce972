package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

const (
	classListPage = "classes/list"
	classFormPage = "classes/form"
)

var classFormErrors = []error{
	service.ErrClassDuplicate,
	service.ErrAdviserInvalid,
	service.ErrSchoolYearNotFound,
}

// ClassHandler class list and forms
type ClassHandler struct {
	classSvc      service.ClassService
	schoolYearSvc service.SchoolYearService
	userSvc       service.UserService
}

func NewClassHandler(classSvc service.ClassService, schoolYearSvc service.SchoolYearService, userSvc service.UserService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc, schoolYearSvc: schoolYearSvc, userSvc: userSvc}
}

// List GET /classes
func (h *ClassHandler) List(c *gin.Context) {
	var req dto.ClassListRequest
	if !bindQuery(c, &req) {
		return
	}

	ctx := c.Request.Context()
	page, err := h.classSvc.List(ctx, &req)
	if err != nil {
		serverError(c, err)
		return
	}
	years, err := h.schoolYearSvc.List(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	grades, err := h.classSvc.GradeLevels(ctx)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, classListPage, gin.H{
		"Title":       "Classes",
		"Page":        withQuery(c, page),
		"Filter":      req,
		"SchoolYears": years,
		"Grades":      grades,
	})
}

// New GET /classes/new
func (h *ClassHandler) New(c *gin.Context) {
	form := &dto.ClassForm{IsActive: true}
	active, err := h.schoolYearSvc.GetActive(c.Request.Context())
	switch {
	case err == nil:
		form.SchoolYearID = active.ID
	case !errors.Is(err, service.ErrSchoolYearNotFound):
		serverError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, "", form, nil)
}

// Create POST /classes
func (h *ClassHandler) Create(c *gin.Context) {
	var form dto.ClassForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, "", &form, errs)
		return
	}

	class, err := h.classSvc.Create(c.Request.Context(), &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, classFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, "", &form, msgs)
			return
		}
		serverError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, fmt.Sprintf("Class %s was created.", class.Label), "/classes")
}

// Edit GET /classes/:id/edit
func (h *ClassHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	class, err := h.classSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}

	h.renderForm(c, http.StatusOK, id, &dto.ClassForm{
		GradeLevel:   class.GradeLevel,
		Section:      class.Section,
		TeacherID:    class.TeacherID,
		SchoolYearID: class.SchoolYearID,
		IsActive:     class.IsActive,
	}, nil)
}

// Update POST /classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var form dto.ClassForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, id, &form, errs)
		return
	}

	class, err := h.classSvc.Update(c.Request.Context(), id, &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, classFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, id, &form, msgs)
			return
		}
		h.handleClassError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, fmt.Sprintf("Class %s was updated.", class.Label), "/classes")
}

// Delete POST /classes/:id/delete
func (h *ClassHandler) Delete(c *gin.Context) {
	err := h.classSvc.Delete(c.Request.Context(), c.Param("id"), pageUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrClassInUse) {
			redirectWithFlash(c, middleware.FlashError, "The class still has students. Move them before deleting it.", backTo(c, "/classes"))
			return
		}
		h.handleClassError(c, err)
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "The class was deleted.", backTo(c, "/classes"))
}

// ── helpers ──

func (h *ClassHandler) renderForm(c *gin.Context, status int, id string, form *dto.ClassForm, errs []string) {
	ctx := c.Request.Context()
	years, err := h.schoolYearSvc.List(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	teachers, err := h.userSvc.TeacherOptions(ctx)
	if err != nil {
		serverError(c, err)
		return
	}

	title, action := "Add class", "/classes"
	if id != "" {
		title, action = "Edit class", "/classes/"+id
	}
	render(c, status, classFormPage, gin.H{
		"Title":       title,
		"Action":      action,
		"ID":          id,
		"Form":        form,
		"SchoolYears": years,
		"Teachers":    teachers,
		"Errors":      errs,
	})
}

func (h *ClassHandler) handleClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		notFound(c, "The class")
	default:
		serverError(c, err)
	}
}

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
	schoolYearListPage    = "school_years/list"
	schoolYearFormPage    = "school_years/form"
	schoolYearHolidayPage = "school_years/holidays"
)

var schoolYearFormErrors = []error{
	service.ErrSchoolYearNameInvalid,
	service.ErrSchoolYearNameTaken,
	service.ErrSchoolYearDateInvalid,
}

// SchoolYearHandler school years and their holiday calendars
type SchoolYearHandler struct {
	schoolYearSvc service.SchoolYearService
}

func NewSchoolYearHandler(schoolYearSvc service.SchoolYearService) *SchoolYearHandler {
	return &SchoolYearHandler{schoolYearSvc: schoolYearSvc}
}

// List GET /school-years
func (h *SchoolYearHandler) List(c *gin.Context) {
	years, err := h.schoolYearSvc.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, schoolYearListPage, gin.H{"Title": "School years", "SchoolYears": years})
}

// New GET /school-years/new
func (h *SchoolYearHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", &dto.SchoolYearForm{}, nil)
}

// Create POST /school-years/new
func (h *SchoolYearHandler) Create(c *gin.Context) {
	var form dto.SchoolYearForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, "", &form, errs)
		return
	}

	sy, err := h.schoolYearSvc.Create(c.Request.Context(), &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, schoolYearFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, "", &form, msgs)
			return
		}
		serverError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, fmt.Sprintf("School year %s was created.", sy.Name), "/school-years")
}

// Edit GET /school-years/:id/edit
func (h *SchoolYearHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	sy, err := h.schoolYearSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSchoolYearError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, id, &dto.SchoolYearForm{
		Name:      sy.Name,
		StartDate: sy.StartDate,
		EndDate:   sy.EndDate,
	}, nil)
}

// Update POST /school-years/:id
func (h *SchoolYearHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var form dto.SchoolYearForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, id, &form, errs)
		return
	}

	sy, err := h.schoolYearSvc.Update(c.Request.Context(), id, &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, schoolYearFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, id, &form, msgs)
			return
		}
		h.handleSchoolYearError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, fmt.Sprintf("School year %s was updated.", sy.Name), "/school-years")
}

// Activate POST /school-years/:id/activate
func (h *SchoolYearHandler) Activate(c *gin.Context) {
	if err := h.schoolYearSvc.Activate(c.Request.Context(), c.Param("id"), pageUserID(c)); err != nil {
		h.handleSchoolYearError(c, err)
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "The school year is now active.", "/school-years")
}

// Delete POST /school-years/:id/delete
func (h *SchoolYearHandler) Delete(c *gin.Context) {
	err := h.schoolYearSvc.Delete(c.Request.Context(), c.Param("id"), pageUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSchoolYearActive), errors.Is(err, service.ErrSchoolYearInUse):
			redirectWithFlash(c, middleware.FlashError, err.Error(), "/school-years")
		default:
			h.handleSchoolYearError(c, err)
		}
		return
	}
	redirectWithFlash(c, middleware.FlashSuccess, "The school year was deleted.", "/school-years")
}

// Holidays GET /school-years/:id/holidays
func (h *SchoolYearHandler) Holidays(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	sy, err := h.schoolYearSvc.GetByID(ctx, id)
	if err != nil {
		h.handleSchoolYearError(c, err)
		return
	}
	holidays, err := h.schoolYearSvc.ListHolidays(ctx, id)
	if err != nil {
		h.handleSchoolYearError(c, err)
		return
	}

	render(c, http.StatusOK, schoolYearHolidayPage, gin.H{
		"Title":      "Holidays " + sy.Name,
		"SchoolYear": sy,
		"Holidays":   holidays,
	})
}

// ImportHolidays POST /school-years/:id/holidays
func (h *SchoolYearHandler) ImportHolidays(c *gin.Context) {
	id := c.Param("id")
	back := "/school-years/" + id + "/holidays"

	fh, err := c.FormFile("file")
	if err != nil {
		redirectWithFlash(c, middleware.FlashError, "Choose an .ics calendar file to import.", back)
		return
	}
	f, err := fh.Open()
	if err != nil {
		serverError(c, err)
		return
	}
	defer f.Close()

	result, err := h.schoolYearSvc.ImportHolidays(c.Request.Context(), id, f, pageUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrHolidayFileInvalid) {
			redirectWithFlash(c, middleware.FlashError, err.Error(), back)
			return
		}
		h.handleSchoolYearError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("%d holidays imported, %d skipped.", result.Imported, result.Skipped), back)
}

// ── helpers ──

func (h *SchoolYearHandler) renderForm(c *gin.Context, status int, id string, form *dto.SchoolYearForm, errs []string) {
	title, action := "Add school year", "/school-years/new"
	if id != "" {
		title, action = "Edit school year", "/school-years/"+id
	}
	render(c, status, schoolYearFormPage, gin.H{
		"Title":  title,
		"Action": action,
		"ID":     id,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *SchoolYearHandler) handleSchoolYearError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSchoolYearNotFound):
		notFound(c, "The school year")
	default:
		serverError(c, err)
	}
}

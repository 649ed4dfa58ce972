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
	studentListPage = "students/list"
	studentFormPage = "students/form"

	// import row errors listed before the rest are summarised
	importErrorsShown = 10
)

var studentFormErrors = []error{
	service.ErrStudentIDTaken,
	service.ErrLRNTaken,
	service.ErrLRNInvalid,
	service.ErrClassNotFound,
}

// StudentHandler student list, forms and row actions
type StudentHandler struct {
	studentSvc service.StudentService
	classSvc   service.ClassService
}

func NewStudentHandler(studentSvc service.StudentService, classSvc service.ClassService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc, classSvc: classSvc}
}

// List GET /students
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.StudentListRequest
	if !bindQuery(c, &req) {
		return
	}
	if req.Tab == "" {
		req.Tab = "active"
	}

	page, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		serverError(c, err)
		return
	}
	classes, err := h.classSvc.Options(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	grades, err := h.classSvc.GradeLevels(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, studentListPage, gin.H{
		"Title":    "Students",
		"Page":     withQuery(c, page),
		"Filter":   req,
		"Classes":  classes,
		"Grades":   grades,
		"ReturnTo": c.Request.URL.RequestURI(),
	})
}

// New GET /students/new
func (h *StudentHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", &dto.StudentForm{SMSEnabled: true}, nil)
}

// Create POST /students
func (h *StudentHandler) Create(c *gin.Context) {
	var form dto.StudentForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, "", &form, errs)
		return
	}

	student, err := h.studentSvc.Create(c.Request.Context(), &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, studentFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, "", &form, msgs)
			return
		}
		serverError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("Student %s (%s) was added.", student.FullName, student.StudentID), "/students")
}

// Edit GET /students/:id/edit
func (h *StudentHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	student, err := h.studentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	form := &dto.StudentForm{
		StudentID:   student.StudentID,
		LRN:         student.LRN,
		FirstName:   student.FirstName,
		LastName:    student.LastName,
		ClassID:     student.ClassID,
		ParentName:  student.ParentName,
		ParentPhone: student.ParentPhone,
		ParentEmail: student.ParentEmail,
		SMSEnabled:  student.SMSEnabled,
	}
	h.renderForm(c, http.StatusOK, id, form, nil)
}

// Update POST /students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var form dto.StudentForm
	if errs := bindForm(c, &form); errs != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, id, &form, errs)
		return
	}

	student, err := h.studentSvc.Update(c.Request.Context(), id, &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, studentFormErrors...); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, id, &form, msgs)
			return
		}
		h.handleStudentError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("Student %s was updated.", student.FullName), "/students")
}

// ToggleActive POST /students/:id/toggle-active
func (h *StudentHandler) ToggleActive(c *gin.Context) {
	student, err := h.studentSvc.ToggleActive(c.Request.Context(), c.Param("id"), pageUserID(c))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	state := "deactivated"
	if student.IsActive {
		state = "reactivated"
	}
	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("%s was %s.", student.FullName, state), backTo(c, "/students"))
}

// ToggleSMS POST /students/:id/toggle-sms
func (h *StudentHandler) ToggleSMS(c *gin.Context) {
	student, err := h.studentSvc.ToggleSMS(c.Request.Context(), c.Param("id"), pageUserID(c))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	state := "off"
	if student.SMSEnabled {
		state = "on"
	}
	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("SMS notifications for %s are now %s.", student.FullName, state), backTo(c, "/students"))
}

// QRCode GET /students/:id/qr.png
func (h *StudentHandler) QRCode(c *gin.Context) {
	png, err := h.studentSvc.QRCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// Import POST /students/import
func (h *StudentHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		redirectWithFlash(c, middleware.FlashError, "Choose an .xlsx file to import.", "/students")
		return
	}
	f, err := fh.Open()
	if err != nil {
		serverError(c, err)
		return
	}
	defer f.Close()

	result, err := h.studentSvc.Import(c.Request.Context(), f, pageUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportFileInvalid), errors.Is(err, service.ErrImportNoActiveYear):
			redirectWithFlash(c, middleware.FlashError, err.Error(), "/students")
		default:
			serverError(c, err)
		}
		return
	}

	middleware.AddFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("Import finished: %d added, %d updated.", result.Created, result.Updated))
	for i, msg := range result.Errors {
		if i == importErrorsShown {
			middleware.AddFlash(c, middleware.FlashError,
				fmt.Sprintf("%d more rows were skipped.", len(result.Errors)-importErrorsShown))
			break
		}
		middleware.AddFlash(c, middleware.FlashError, msg)
	}
	c.Redirect(http.StatusFound, "/students")
}

// ── helpers ──

func (h *StudentHandler) renderForm(c *gin.Context, status int, id string, form *dto.StudentForm, errs []string) {
	classes, err := h.classSvc.Options(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	title, action := "Add student", "/students"
	if id != "" {
		title, action = "Edit student", "/students/"+id
	}
	render(c, status, studentFormPage, gin.H{
		"Title":   title,
		"Action":  action,
		"ID":      id,
		"Form":    form,
		"Classes": classes,
		"Errors":  errs,
	})
}

func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		notFound(c, "The student")
	default:
		serverError(c, err)
	}
}

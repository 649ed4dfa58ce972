package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

const attendanceListPage = "attendance/list"

var attendanceFormErrors = []error{
	service.ErrAttendanceDateInvalid,
	service.ErrAttendanceFutureDate,
	service.ErrStudentNotFound,
	service.ErrStudentInactive,
}

// AttendanceHandler student attendance list and manual check-in
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	classSvc      service.ClassService
}

func NewAttendanceHandler(attendanceSvc service.AttendanceService, classSvc service.ClassService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, classSvc: classSvc}
}

// List GET /attendance
func (h *AttendanceHandler) List(c *gin.Context) {
	var req dto.AttendanceListRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAttendanceDateInvalid) {
			redirectWithFlash(c, middleware.FlashError, err.Error(), "/attendance")
			return
		}
		serverError(c, err)
		return
	}
	classes, err := h.classSvc.Options(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, attendanceListPage, gin.H{
		"Title":    "Attendance",
		"Page":     withQuery(c, page),
		"Filter":   req,
		"Classes":  classes,
		"Statuses": []string{"present", "late", "absent"},
		"ReturnTo": c.Request.URL.RequestURI(),
	})
}

// Record POST /attendance
func (h *AttendanceHandler) Record(c *gin.Context) {
	back := backTo(c, "/attendance")

	var form dto.AttendanceForm
	if errs := bindForm(c, &form); errs != nil {
		redirectWithFlash(c, middleware.FlashError, strings.Join(errs, " "), back)
		return
	}

	row, created, err := h.attendanceSvc.Record(c.Request.Context(), &form, pageUserID(c))
	if err != nil {
		if msgs, ok := formMessages(err, attendanceFormErrors...); ok {
			redirectWithFlash(c, middleware.FlashError, strings.Join(msgs, " "), back)
			return
		}
		serverError(c, err)
		return
	}

	msg := fmt.Sprintf("Attendance for %s on %s corrected to %s.", row.StudentName, row.Date, row.Status)
	if created {
		msg = fmt.Sprintf("%s marked %s on %s.", row.StudentName, row.Status, row.Date)
	}
	redirectWithFlash(c, middleware.FlashSuccess, msg, back)
}

package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler Excel downloads of the student and attendance lists
type ExportHandler struct {
	exportSvc service.ExportService
}

func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Students GET /students/export
func (h *ExportHandler) Students(c *gin.Context) {
	var req dto.StudentListRequest
	if !bindQuery(c, &req) {
		return
	}

	buf, filename, err := h.exportSvc.Students(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err, "/students")
		return
	}
	sendXLSX(c, buf, filename)
}

// Attendance GET /attendance/export
func (h *ExportHandler) Attendance(c *gin.Context) {
	var req dto.AttendanceExportRequest
	if !bindQuery(c, &req) {
		return
	}

	buf, filename, err := h.exportSvc.Attendance(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err, "/attendance")
		return
	}
	sendXLSX(c, buf, filename)
}

func sendXLSX(c *gin.Context, buf *bytes.Buffer, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrAttendanceDateInvalid),
		errors.Is(err, service.ErrExportRangeInvalid),
		errors.Is(err, service.ErrExportRangeTooLong):
		redirectWithFlash(c, middleware.FlashError, err.Error(), back)
	default:
		serverError(c, err)
	}
}

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

var logLevels = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

// LogHandler system log viewer
type LogHandler struct {
	logSvc service.LogService
}

func NewLogHandler(logSvc service.LogService) *LogHandler {
	return &LogHandler{logSvc: logSvc}
}

// List GET /logs
func (h *LogHandler) List(c *gin.Context) {
	var req dto.LogListRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.logSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrLogDateInvalid) {
			redirectWithFlash(c, middleware.FlashError, err.Error(), "/logs")
			return
		}
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "logs/list", gin.H{
		"Title":  "System logs",
		"Page":   withQuery(c, page),
		"Filter": req,
		"Levels": logLevels,
	})
}

// Purge POST /logs/purge
func (h *LogHandler) Purge(c *gin.Context) {
	var form dto.LogPurgeForm
	if errs := bindForm(c, &form); errs != nil {
		redirectWithFlash(c, middleware.FlashError, strings.Join(errs, " "), "/logs")
		return
	}

	n, err := h.logSvc.Purge(c.Request.Context(), form.OlderThanDays, pageUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrLogRetentionDays) {
			redirectWithFlash(c, middleware.FlashError, err.Error(), "/logs")
			return
		}
		serverError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("Deleted %d log entries older than %d days.", n, form.OlderThanDays), "/logs")
}

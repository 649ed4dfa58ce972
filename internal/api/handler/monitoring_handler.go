package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/monitoring"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

// MonitoringHandler teacher attendance monitoring
type MonitoringHandler struct {
	monitoringSvc service.MonitoringService
}

func NewMonitoringHandler(monitoringSvc service.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoringSvc: monitoringSvc}
}

// Show GET /monitoring
func (h *MonitoringHandler) Show(c *gin.Context) {
	var req dto.MonitoringRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.monitoringSvc.Compute(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrMonitoringDateInvalid) {
			redirectWithFlash(c, middleware.FlashError, err.Error(), "/monitoring")
			return
		}
		serverError(c, err)
		return
	}
	withQuery(c, result.Page)

	statuses := make([]string, len(monitoring.Statuses))
	for i, st := range monitoring.Statuses {
		statuses[i] = string(st)
	}

	render(c, http.StatusOK, "monitoring", gin.H{
		"Title":    "Teacher monitoring",
		"Result":   result,
		"Filter":   req,
		"Statuses": statuses,
	})
}

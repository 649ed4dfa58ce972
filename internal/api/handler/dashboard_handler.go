package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

// DashboardHandler GET /
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

func (h *DashboardHandler) Show(c *gin.Context) {
	summary, err := h.dashboardSvc.Summary(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "dashboard", gin.H{"Title": "Dashboard", "Summary": summary})
}

package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/response"
)

const healthTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler GET /health
type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health reports "ok" with 200, or "degraded" with 503 when any check fails.
func (h *HealthHandler) Health(c *gin.Context) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	results := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			status = "degraded"
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	data := gin.H{"status": status, "checks": results}
	if status != "ok" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Code:    response.CodeInternal,
			Message: "degraded",
			Data:    data,
		})
		return
	}
	response.OK(c, data)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

const settingsPage = "settings"

// SettingsHandler school-wide runtime settings
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Show GET /settings
func (h *SettingsHandler) Show(c *gin.Context) {
	current, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, settingsPage, gin.H{
		"Title": "Settings",
		"Form": &dto.SettingsForm{
			SchoolName:           current.SchoolName,
			ClassStartTime:       current.ClassStartTime,
			LateThresholdMinutes: current.LateThresholdMinutes,
		},
		"UpdatedAt": current.UpdatedAt,
	})
}

// Update POST /settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var form dto.SettingsForm
	if errs := bindForm(c, &form); errs != nil {
		renderForm(c, settingsPage, gin.H{"Title": "Settings", "Form": &form}, errs)
		return
	}

	if _, err := h.settingsSvc.Update(c.Request.Context(), &form, pageUserID(c)); err != nil {
		if msgs, ok := formMessages(err); ok {
			renderForm(c, settingsPage, gin.H{"Title": "Settings", "Form": &form}, msgs)
			return
		}
		serverError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, "Settings were saved.", "/settings")
}

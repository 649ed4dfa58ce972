package dto

// SettingsForm POST /settings
type SettingsForm struct {
	SchoolName           string `form:"school_name"            label:"School name"     binding:"notblank,max=150"`
	ClassStartTime       string `form:"class_start_time"       label:"Class start"     binding:"required,hhmm"`
	LateThresholdMinutes int    `form:"late_threshold_minutes" label:"Late threshold"  binding:"min=0,max=240"`
}

// SettingsResponse current settings
type SettingsResponse struct {
	SchoolName           string
	ClassStartTime       string
	LateThresholdMinutes int
	UpdatedAt            string
}

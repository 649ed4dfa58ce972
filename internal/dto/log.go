package dto

// LogListRequest GET /logs
type LogListRequest struct {
	PaginationRequest
	Level  string `form:"level"  binding:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	Search string `form:"search"`
	Date   string `form:"date"   binding:"omitempty,datetime=2006-01-02"`
}

// LogPurgeForm POST /logs/purge
type LogPurgeForm struct {
	OlderThanDays int `form:"older_than_days" label:"Days" binding:"required,min=1,max=3650"`
}

// LogResponse log row
type LogResponse struct {
	ID        int64
	Level     string
	Message   string
	Context   string
	Username  string
	IP        string
	CreatedAt string
}

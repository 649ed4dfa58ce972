package dto

// MonitoringRequest GET /monitoring
type MonitoringRequest struct {
	PaginationRequest
	Date   string `form:"date"   binding:"omitempty,datetime=2006-01-02"`
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=confirmed late pending absent no_scan holiday"`
}

// MonitoringRow one teacher on the monitored date
type MonitoringRow struct {
	TeacherID   string
	FullName    string
	Username    string
	Classes     string
	LoginAt     string
	FirstScanAt string
	LogoutAt    string
	Status      string
}

// MonitoringResult the monitoring page
type MonitoringResult struct {
	Date    string
	Cutoff  string
	Holiday string
	Summary map[string]int
	Page    *Page[MonitoringRow]
}

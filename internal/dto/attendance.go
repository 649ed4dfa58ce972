package dto

// AttendanceListRequest GET /attendance
type AttendanceListRequest struct {
	PaginationRequest
	Date    string `form:"date"     binding:"omitempty,datetime=2006-01-02"`
	Student string `form:"student"`
	ClassID string `form:"class_id"`
	Status  string `form:"status"   binding:"omitempty,oneof=present late absent"`
}

// AttendanceForm manual check-in or correction. StudentID is the school ID or LRN.
type AttendanceForm struct {
	StudentID string `form:"student_id" label:"Student ID" binding:"notblank,max=30"`
	Date      string `form:"date"       label:"Date"       binding:"omitempty,datetime=2006-01-02"`
	Status    string `form:"status"     label:"Status"     binding:"omitempty,oneof=present late absent"`
	Remarks   string `form:"remarks"    label:"Remarks"    binding:"max=500"`
}

// AttendanceExportRequest GET /attendance/export
type AttendanceExportRequest struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
	ClassID  string `form:"class_id"`
}

// AttendanceResponse attendance row
type AttendanceResponse struct {
	ID          string `json:"id"`
	StudentUUID string `json:"student_uuid"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	ClassLabel  string `json:"class_label"`
	Date        string `json:"date"`
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status"`
	RecordedBy  string `json:"recorded_by"`
	Remarks     string `json:"remarks"`
}

// ScanRequest POST /api/v1/scans
type ScanRequest struct {
	Code string `json:"code" binding:"required,max=30"`
}

// ScanResponse a scan result. Duplicate is set when the student already checked in today.
type ScanResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Duplicate  bool               `json:"duplicate"`
}

package model

import "time"

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceAbsent  = "absent"
)

// Attendance table attendance, one row per student per date
type Attendance struct {
	AttendanceID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	StudentID    string     `gorm:"type:uuid;not null"                             json:"student_id"`
	Date         time.Time  `gorm:"type:date;not null"                             json:"date"`
	CheckInTime  *time.Time `gorm:""                                               json:"check_in_time,omitempty"`
	Status       string     `gorm:"type:varchar(10);not null"                      json:"status"`
	RecordedBy   *string    `gorm:"type:uuid"                                      json:"recorded_by,omitempty"`
	Remarks      string     `gorm:"type:text;not null;default:''"                  json:"remarks"`
	Student      *Student   `gorm:"foreignKey:StudentID;references:ID"             json:"student,omitempty"`
	Recorder     *User      `gorm:"foreignKey:RecordedBy;references:UserID"        json:"recorder,omitempty"`
	BaseModel
}

func (Attendance) TableName() string { return "attendance" }

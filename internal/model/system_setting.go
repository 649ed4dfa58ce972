package model

// SystemSetting the singleton row of system_settings
type SystemSetting struct {
	Singleton            bool   `gorm:"primaryKey;default:true"                     json:"-"`
	SchoolName           string `gorm:"type:varchar(150);not null"                  json:"school_name"`
	ClassStartTime       string `gorm:"type:varchar(5);not null;default:'07:30'"    json:"class_start_time"` // HH:MM
	LateThresholdMinutes int    `gorm:"not null;default:15"                         json:"late_threshold_minutes"`
	BaseModel
}

func (SystemSetting) TableName() string { return "system_settings" }

// Defaults used when the row is missing
const (
	DefaultClassStartTime       = "07:30"
	DefaultLateThresholdMinutes = 15
)

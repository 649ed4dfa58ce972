package model

import "time"

// SchoolYear table school_years. At most one row is active.
type SchoolYear struct {
	SchoolYearID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"school_year_id"`
	Name         string    `gorm:"type:varchar(9);not null"                       json:"name"` // YYYY-YYYY
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive     bool      `gorm:"not null;default:false"                         json:"is_active"`
	BaseModel
}

func (SchoolYear) TableName() string { return "school_years" }

// Holiday table holidays, imported per school year
type Holiday struct {
	HolidayID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	SchoolYearID string    `gorm:"type:uuid;not null"                             json:"school_year_id"`
	Date         time.Time `gorm:"type:date;not null"                             json:"date"`
	Name         string    `gorm:"type:varchar(200);not null"                     json:"name"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (Holiday) TableName() string { return "holidays" }

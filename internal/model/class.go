package model

// Class table classes
type Class struct {
	ClassID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	GradeLevel   string      `gorm:"type:varchar(30);not null"                      json:"grade_level"`
	Section      string      `gorm:"type:varchar(50);not null"                      json:"section"`
	TeacherID    *string     `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	SchoolYearID string      `gorm:"type:uuid;not null"                             json:"school_year_id"`
	IsActive     bool        `gorm:"not null;default:true"                          json:"is_active"`
	Teacher      *User       `gorm:"foreignKey:TeacherID;references:UserID"         json:"teacher,omitempty"`
	SchoolYear   *SchoolYear `gorm:"foreignKey:SchoolYearID;references:SchoolYearID" json:"school_year,omitempty"`
	BaseModel
}

func (Class) TableName() string { return "classes" }

// Label e.g. "Grade 7 - Rizal"
func (c *Class) Label() string {
	return c.GradeLevel + " - " + c.Section
}

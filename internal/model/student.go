package model

// Student table students
type Student struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID   string  `gorm:"type:varchar(30);not null"                      json:"student_id"`
	LRN         *string `gorm:"column:lrn;type:varchar(12)"                    json:"lrn,omitempty"`
	FirstName   string  `gorm:"type:varchar(80);not null"                      json:"first_name"`
	LastName    string  `gorm:"type:varchar(80);not null"                      json:"last_name"`
	ClassID     *string `gorm:"type:uuid"                                      json:"class_id,omitempty"`
	ParentName  string  `gorm:"type:varchar(120);not null;default:''"          json:"parent_name"`
	ParentPhone string  `gorm:"type:varchar(20);not null;default:''"           json:"parent_phone"`
	ParentEmail string  `gorm:"type:varchar(255);not null;default:''"          json:"parent_email"`
	IsActive    bool    `gorm:"not null;default:true"                          json:"is_active"`
	SMSEnabled  bool    `gorm:"column:sms_enabled;not null;default:false"      json:"sms_enabled"`
	Class       *Class  `gorm:"foreignKey:ClassID;references:ClassID"          json:"class,omitempty"`
	BaseModel
}

func (Student) TableName() string { return "students" }

// FullName "Last, First"
func (s *Student) FullName() string {
	return s.LastName + ", " + s.FirstName
}

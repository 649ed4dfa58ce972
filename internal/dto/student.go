package dto

// StudentListRequest GET /students and GET /students/export
type StudentListRequest struct {
	PaginationRequest
	Search  string `form:"search"`
	ClassID string `form:"class_id"`
	Grade   string `form:"grade"`
	Tab     string `form:"tab" binding:"omitempty,oneof=active inactive all"`
}

// ActiveFilter maps the tab to an is_active filter, nil meaning both.
func (r *StudentListRequest) ActiveFilter() *bool {
	switch r.Tab {
	case "all":
		return nil
	case "inactive":
		v := false
		return &v
	default:
		v := true
		return &v
	}
}

// StudentForm create and edit form
type StudentForm struct {
	StudentID   string `form:"student_id"   label:"Student ID"   binding:"notblank,max=30"`
	LRN         string `form:"lrn"          label:"LRN"          binding:"lrn"`
	FirstName   string `form:"first_name"   label:"First name"   binding:"notblank,max=80"`
	LastName    string `form:"last_name"    label:"Last name"    binding:"notblank,max=80"`
	ClassID     string `form:"class_id"     label:"Class"        binding:"omitempty,uuid"`
	ParentName  string `form:"parent_name"  label:"Parent name"  binding:"max=120"`
	ParentPhone string `form:"parent_phone" label:"Parent phone" binding:"omitempty,max=20"`
	ParentEmail string `form:"parent_email" label:"Parent email" binding:"omitempty,email,max=255"`
	SMSEnabled  bool   `form:"sms_enabled"`
}

// StudentResponse student row
type StudentResponse struct {
	ID          string
	StudentID   string
	LRN         string
	FirstName   string
	LastName    string
	FullName    string
	ClassID     string
	ClassLabel  string
	ParentName  string
	ParentPhone string
	ParentEmail string
	IsActive    bool
	SMSEnabled  bool
	CreatedAt   string
}

// StudentImportResult summary flashed after a spreadsheet upload
type StudentImportResult struct {
	Created int
	Updated int
	Errors  []string
}

package dto

// ClassListRequest GET /classes
type ClassListRequest struct {
	PaginationRequest
	Search       string `form:"search"`
	Grade        string `form:"grade"`
	SchoolYearID string `form:"school_year_id"`
}

// ClassForm create and edit form
type ClassForm struct {
	GradeLevel   string `form:"grade_level"    label:"Grade level" binding:"notblank,max=30"`
	Section      string `form:"section"        label:"Section"     binding:"notblank,max=50"`
	TeacherID    string `form:"teacher_id"     label:"Adviser"     binding:"omitempty,uuid"`
	SchoolYearID string `form:"school_year_id" label:"School year" binding:"required,uuid"`
	IsActive     bool   `form:"is_active"`
}

// ClassResponse class row
type ClassResponse struct {
	ID             string
	GradeLevel     string
	Section        string
	Label          string
	TeacherID      string
	TeacherName    string
	SchoolYearID   string
	SchoolYearName string
	IsActive       bool
	StudentCount   int64
}

// ClassOption entry of a class dropdown
type ClassOption struct {
	ID    string
	Label string
}

package dto

// DashboardSummary figures shown on the home page
type DashboardSummary struct {
	SchoolName       string
	Today            string
	ActiveSchoolYear string
	Holiday          string
	ActiveStudents   int64
	InactiveStudents int64
	Classes          int64
	Teachers         int64
	Present          int64
	Late             int64
	Absent           int64
	NotCheckedIn     int64
}

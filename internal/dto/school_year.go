package dto

// SchoolYearForm create and edit form
type SchoolYearForm struct {
	Name      string `form:"name"       label:"Name"       binding:"required,schoolyear"`
	StartDate string `form:"start_date" label:"Start date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   label:"End date"   binding:"required,datetime=2006-01-02"`
}

// SchoolYearResponse school year row
type SchoolYearResponse struct {
	ID           string
	Name         string
	StartDate    string
	EndDate      string
	IsActive     bool
	ClassCount   int64
	HolidayCount int64
}

// HolidayResponse imported holiday
type HolidayResponse struct {
	ID      string
	Date    string
	Weekday string
	Name    string
}

// HolidayImportResult summary flashed after an ICS upload
type HolidayImportResult struct {
	Imported int
	Skipped  int
}

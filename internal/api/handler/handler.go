package handler

import "github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"

// Handler groups every handler
type Handler struct {
	Auth         *AuthHandler
	Dashboard    *DashboardHandler
	Student      *StudentHandler
	Class        *ClassHandler
	SchoolYear   *SchoolYearHandler
	Attendance   *AttendanceHandler
	Monitoring   *MonitoringHandler
	Settings     *SettingsHandler
	Log          *LogHandler
	Subscription *SubscriptionHandler
	User         *UserHandler
	Export       *ExportHandler
	Scan         *ScanHandler
	Health       *HealthHandler
}

// NewHandler wires every handler to its services.
func NewHandler(svc *service.Service, health *HealthHandler) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Student:      NewStudentHandler(svc.Student, svc.Class),
		Class:        NewClassHandler(svc.Class, svc.SchoolYear, svc.User),
		SchoolYear:   NewSchoolYearHandler(svc.SchoolYear),
		Attendance:   NewAttendanceHandler(svc.Attendance, svc.Class),
		Monitoring:   NewMonitoringHandler(svc.Monitoring),
		Settings:     NewSettingsHandler(svc.Settings),
		Log:          NewLogHandler(svc.Log),
		Subscription: NewSubscriptionHandler(svc.Subscription),
		User:         NewUserHandler(svc.User),
		Export:       NewExportHandler(svc.Export),
		Scan:         NewScanHandler(svc.Auth, svc.Attendance),
		Health:       health,
	}
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BelowZeroPortfolio/school-scan-sub001/config"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/jwt"
)

// TokenStore revokes scanner tokens. *redis.Client implements it.
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service groups every service
type Service struct {
	Auth         AuthService
	User         UserService
	SchoolYear   SchoolYearService
	Class        ClassService
	Student      StudentService
	Attendance   AttendanceService
	Monitoring   MonitoringService
	Settings     SettingsService
	Log          LogService
	Subscription SubscriptionService
	Export       ExportService
	Dashboard    DashboardService
}

// NewService wires every service. tokens may be nil when Redis is disabled.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) *Service {
	loc := cfg.School.Location()
	settings := NewSettingsService(repo, loc, logger)

	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, tokens, logger),
		User:         NewUserService(repo, loc, logger),
		SchoolYear:   NewSchoolYearService(repo, loc, logger),
		Class:        NewClassService(repo, logger),
		Student:      NewStudentService(repo, loc, logger),
		Attendance:   NewAttendanceService(repo, settings, loc, logger),
		Monitoring:   NewMonitoringService(repo, settings, loc, logger),
		Settings:     settings,
		Log:          NewLogService(repo, loc, logger),
		Subscription: NewSubscriptionService(repo, loc, logger),
		Export:       NewExportService(repo, loc, logger),
		Dashboard:    NewDashboardService(repo, settings, loc, logger),
	}
}

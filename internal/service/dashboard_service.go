package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
)

// DashboardService figures for the home page
type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
}

type dashboardService struct {
	repo     *repository.Repository
	settings SettingsService
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewDashboardService(repo *repository.Repository, settings SettingsService, loc *time.Location, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, settings: settings, loc: loc, logger: logger, now: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	today := startOfDay(s.now(), s.loc)
	sum := &dto.DashboardSummary{Today: today.Format(dateLayout)}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	sum.SchoolName = settings.SchoolName

	syID := ""
	sy, err := s.repo.SchoolYear.GetActive(ctx)
	switch {
	case err == nil:
		sum.ActiveSchoolYear = sy.Name
		syID = sy.SchoolYearID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("load active school year failed", zap.Error(err))
		return nil, err
	}

	holiday, err := s.repo.Holiday.GetByDate(ctx, today)
	switch {
	case err == nil:
		sum.Holiday = holiday.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("load holiday failed", zap.Error(err))
		return nil, err
	}

	active, inactive := true, false
	if sum.ActiveStudents, err = s.repo.Student.Count(ctx, &active); err != nil {
		return nil, s.fail("count students", err)
	}
	if sum.InactiveStudents, err = s.repo.Student.Count(ctx, &inactive); err != nil {
		return nil, s.fail("count students", err)
	}
	if sum.Classes, err = s.repo.Class.Count(ctx, syID); err != nil {
		return nil, s.fail("count classes", err)
	}
	if sum.Teachers, err = s.repo.User.CountByRole(ctx, model.RoleTeacher, true); err != nil {
		return nil, s.fail("count teachers", err)
	}

	counts, err := s.repo.Attendance.CountByStatus(ctx, today)
	if err != nil {
		return nil, s.fail("count attendance", err)
	}
	sum.Present = counts[model.AttendancePresent]
	sum.Late = counts[model.AttendanceLate]
	sum.Absent = counts[model.AttendanceAbsent]
	sum.NotCheckedIn = sum.ActiveStudents - sum.Present - sum.Late - sum.Absent
	if sum.NotCheckedIn < 0 {
		sum.NotCheckedIn = 0
	}
	return sum, nil
}

func (s *dashboardService) fail(what string, err error) error {
	s.logger.Error(what+" failed", zap.Error(err))
	return err
}

package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/monitoring"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
)

var ErrMonitoringDateInvalid = errors.New("date must be YYYY-MM-DD")

// MonitoringService teacher attendance for one school day
type MonitoringService interface {
	Compute(ctx context.Context, req *dto.MonitoringRequest) (*dto.MonitoringResult, error)
}

type monitoringService struct {
	repo     *repository.Repository
	settings SettingsService
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewMonitoringService(repo *repository.Repository, settings SettingsService, loc *time.Location, logger *zap.Logger) MonitoringService {
	return &monitoringService{
		repo:     repo,
		settings: settings,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Compute ──────────────────────
//
// Every active teacher matching the search gets one row. The summary counts
// all rows before the status filter so the cards stay stable while filtering.

func (s *monitoringService) Compute(ctx context.Context, req *dto.MonitoringRequest) (*dto.MonitoringResult, error) {
	now := s.now()
	day, err := parseDay(req.Date, now, s.loc)
	if err != nil {
		return nil, ErrMonitoringDateInvalid
	}

	cutoff, err := s.settings.Cutoff(ctx, day)
	if err != nil {
		s.logger.Error("compute cutoff failed", zap.Error(err))
		return nil, err
	}

	result := &dto.MonitoringResult{
		Date:   day.Format(dateLayout),
		Cutoff: cutoff.Format(clockLayout),
	}

	holiday, err := s.repo.Holiday.GetByDate(ctx, day)
	switch {
	case err == nil:
		result.Holiday = holiday.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("load holiday failed", zap.Error(err))
		return nil, err
	}

	active := true
	teachers, _, err := s.repo.User.List(ctx, repository.UserFilter{
		Search: req.Search,
		Role:   model.RoleTeacher,
		Active: &active,
	})
	if err != nil {
		s.logger.Error("list teachers failed", zap.Error(err))
		return nil, err
	}

	ids := make([]string, len(teachers))
	for i := range teachers {
		ids[i] = teachers[i].UserID
	}

	classes, err := s.classLabels(ctx, ids)
	if err != nil {
		return nil, err
	}

	var bounds map[string]repository.DayAuth
	var scans map[string]time.Time
	if result.Holiday == "" {
		from, to := monitoring.DayBounds(day, s.loc)
		if bounds, err = s.repo.AuthEvent.DayBounds(ctx, ids, from, to); err != nil {
			s.logger.Error("load auth events failed", zap.Error(err))
			return nil, err
		}
		if scans, err = s.repo.Attendance.FirstScansByRecorders(ctx, ids, day); err != nil {
			s.logger.Error("load first scans failed", zap.Error(err))
			return nil, err
		}
	}

	rows := make([]dto.MonitoringRow, 0, len(teachers))
	statuses := make([]monitoring.Status, 0, len(teachers))
	for i := range teachers {
		t := &teachers[i]
		row := dto.MonitoringRow{
			TeacherID: t.UserID,
			FullName:  t.FullName,
			Username:  t.Username,
			Classes:   strings.Join(classes[t.UserID], ", "),
		}

		status := monitoring.StatusHoliday
		if result.Holiday == "" {
			auth := bounds[t.UserID]
			var firstScan *time.Time
			if at, ok := scans[t.UserID]; ok {
				firstScan = &at
			}
			status = monitoring.Derive(monitoring.Input{
				Login:     auth.Login,
				FirstScan: firstScan,
				Logout:    auth.Logout,
				Cutoff:    cutoff,
				Now:       now,
			})
			row.LoginAt = formatClock(auth.Login, s.loc)
			row.FirstScanAt = formatClock(firstScan, s.loc)
			row.LogoutAt = formatClock(auth.Logout, s.loc)
		}
		row.Status = string(status)

		statuses = append(statuses, status)
		rows = append(rows, row)
	}
	result.Summary = monitoring.Summarize(statuses)

	if req.Status != "" {
		filtered := rows[:0]
		for _, row := range rows {
			if row.Status == req.Status {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	result.Page = dto.NewPage(pageSlice(rows, req.GetOffset(), req.GetPageSize()), &req.PaginationRequest, int64(len(rows)))
	return result, nil
}

// classLabels maps teacher ID to the sorted labels of the active classes they advise.
func (s *monitoringService) classLabels(ctx context.Context, teacherIDs []string) (map[string][]string, error) {
	labels := make(map[string][]string)
	if len(teacherIDs) == 0 {
		return labels, nil
	}

	classes, _, err := s.repo.Class.List(ctx, repository.ClassFilter{
		TeacherIDs: teacherIDs,
		ActiveOnly: true,
	})
	if err != nil {
		s.logger.Error("list advised classes failed", zap.Error(err))
		return nil, err
	}
	for i := range classes {
		c := &classes[i]
		if c.TeacherID == nil {
			continue
		}
		labels[*c.TeacherID] = append(labels[*c.TeacherID], c.Label())
	}
	for _, l := range labels {
		sort.Strings(l)
	}
	return labels, nil
}

func pageSlice[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/monitoring"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// ── attendance errors ──

var (
	ErrAttendanceDateInvalid = errors.New("date must be YYYY-MM-DD")
	ErrAttendanceFutureDate  = errors.New("attendance cannot be recorded for a future date")
	ErrStudentInactive       = errors.New("student is inactive")
)

// AttendanceService student check-ins from the scanner and manual corrections
type AttendanceService interface {
	// List defaults to today when no date is given.
	List(ctx context.Context, req *dto.AttendanceListRequest) (*dto.Page[dto.AttendanceResponse], error)
	// Record creates the day's row or corrects the existing one. created is
	// false for a correction.
	Record(ctx context.Context, form *dto.AttendanceForm, callerID string) (*dto.AttendanceResponse, bool, error)
	// Scan records a check-in now. A second scan on the same day returns the
	// first row with Duplicate set.
	Scan(ctx context.Context, code string, callerID string) (*dto.ScanResponse, error)
}

type attendanceService struct {
	repo     *repository.Repository
	settings SettingsService
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewAttendanceService(repo *repository.Repository, settings SettingsService, loc *time.Location, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:     repo,
		settings: settings,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── List ──────────────────────

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) (*dto.Page[dto.AttendanceResponse], error) {
	day, err := parseDay(req.Date, s.now(), s.loc)
	if err != nil {
		return nil, ErrAttendanceDateInvalid
	}

	rows, total, err := s.repo.Attendance.List(ctx, repository.AttendanceFilter{
		DateFrom: &day,
		DateTo:   &day,
		Student:  req.Student,
		ClassID:  req.ClassID,
		Status:   req.Status,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, err
	}

	items := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *toAttendanceResponse(&rows[i], s.loc))
	}
	return dto.NewPage(items, &req.PaginationRequest, total), nil
}

// ────────────────────── Record ──────────────────────

func (s *attendanceService) Record(ctx context.Context, form *dto.AttendanceForm, callerID string) (*dto.AttendanceResponse, bool, error) {
	now := s.now()
	today := startOfDay(now, s.loc)

	day, err := parseDay(form.Date, now, s.loc)
	if err != nil {
		return nil, false, ErrAttendanceDateInvalid
	}
	if day.After(today) {
		return nil, false, ErrAttendanceFutureDate
	}

	student, err := s.findStudent(ctx, form.StudentID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.Attendance.GetByStudentDate(ctx, student.ID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load attendance failed", zap.Error(err))
		return nil, false, err
	}

	if existing != nil {
		if form.Status != "" {
			existing.Status = form.Status
		}
		existing.Remarks = strings.TrimSpace(form.Remarks)
		existing.Student, existing.Recorder = nil, nil
		existing.Touch(callerID)

		if err := s.repo.Attendance.Update(ctx, existing); err != nil {
			s.logger.Error("correct attendance failed", zap.String("id", existing.AttendanceID), zap.Error(err))
			return nil, false, err
		}
		s.logger.Info("attendance corrected", logger.Audit(),
			zap.String("user_id", callerID),
			zap.String("student_id", student.StudentID),
			zap.String("date", day.Format(dateLayout)),
			zap.String("status", existing.Status))

		resp, err := s.reload(ctx, student.ID, day)
		return resp, false, err
	}

	row := &model.Attendance{
		StudentID:  student.ID,
		Date:       day,
		Status:     form.Status,
		RecordedBy: optional(callerID),
		Remarks:    strings.TrimSpace(form.Remarks),
	}
	if row.Status != model.AttendanceAbsent && day.Equal(today) {
		row.CheckInTime = &now
	}
	if row.Status == "" {
		row.Status = model.AttendancePresent
		if row.CheckInTime != nil {
			if row.Status, err = s.checkInStatus(ctx, now); err != nil {
				return nil, false, err
			}
		}
	}
	row.Stamp(callerID)

	created, err := s.repo.Attendance.CreateIfAbsent(ctx, row)
	if err != nil {
		s.logger.Error("record attendance failed", zap.Error(err))
		return nil, false, err
	}

	s.logger.Info("attendance recorded", logger.Audit(),
		zap.String("user_id", callerID),
		zap.String("student_id", student.StudentID),
		zap.String("date", day.Format(dateLayout)),
		zap.String("status", row.Status))

	resp, err := s.reload(ctx, student.ID, day)
	return resp, created, err
}

// ────────────────────── Scan ──────────────────────

func (s *attendanceService) Scan(ctx context.Context, code string, callerID string) (*dto.ScanResponse, error) {
	student, err := s.findStudent(ctx, code)
	if err != nil {
		return nil, err
	}
	if !student.IsActive {
		return nil, ErrStudentInactive
	}

	now := s.now()
	day := startOfDay(now, s.loc)

	status, err := s.checkInStatus(ctx, now)
	if err != nil {
		return nil, err
	}

	row := &model.Attendance{
		StudentID:   student.ID,
		Date:        day,
		CheckInTime: &now,
		Status:      status,
		RecordedBy:  optional(callerID),
	}
	row.Stamp(callerID)

	created, err := s.repo.Attendance.CreateIfAbsent(ctx, row)
	if err != nil {
		s.logger.Error("record scan failed", zap.String("student_id", student.StudentID), zap.Error(err))
		return nil, err
	}

	if created {
		s.logger.Info("student checked in",
			zap.String("user_id", callerID),
			zap.String("student_id", student.StudentID),
			zap.String("status", status))
	}

	resp, err := s.reload(ctx, student.ID, day)
	if err != nil {
		return nil, err
	}
	return &dto.ScanResponse{Attendance: *resp, Duplicate: !created}, nil
}

// ── helpers ──

func (s *attendanceService) findStudent(ctx context.Context, code string) (*model.Student, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrStudentNotFound
	}
	student, err := s.repo.Student.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("load student failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *attendanceService) checkInStatus(ctx context.Context, at time.Time) (string, error) {
	cutoff, err := s.settings.Cutoff(ctx, at)
	if err != nil {
		s.logger.Error("compute cutoff failed", zap.Error(err))
		return "", err
	}
	return monitoring.CheckInStatus(at, cutoff), nil
}

func (s *attendanceService) reload(ctx context.Context, studentID string, day time.Time) (*dto.AttendanceResponse, error) {
	row, err := s.repo.Attendance.GetByStudentDate(ctx, studentID, day)
	if err != nil {
		s.logger.Error("reload attendance failed", zap.Error(err))
		return nil, err
	}
	return toAttendanceResponse(row, s.loc), nil
}

func toAttendanceResponse(a *model.Attendance, loc *time.Location) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:          a.AttendanceID,
		StudentUUID: a.StudentID,
		Date:        a.Date.Format(dateLayout),
		CheckInTime: formatClock(a.CheckInTime, loc),
		Status:      a.Status,
		Remarks:     a.Remarks,
	}
	if a.Student != nil {
		resp.StudentID = a.Student.StudentID
		resp.StudentName = a.Student.FullName()
		if a.Student.Class != nil {
			resp.ClassLabel = a.Student.Class.Label()
		}
	}
	if a.Recorder != nil {
		resp.RecordedBy = a.Recorder.FullName
	}
	return resp
}

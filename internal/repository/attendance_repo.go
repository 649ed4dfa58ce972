package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

const dateLayout = "2006-01-02"

// AttendanceFilter list filters for attendance and its export
type AttendanceFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Student  string
	ClassID  string
	Status   string
	Offset   int
	Limit    int
}

// AttendanceRepository attendance table access
type AttendanceRepository interface {
	CreateIfAbsent(ctx context.Context, a *model.Attendance) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	GetByStudentDate(ctx context.Context, studentID string, date time.Time) (*model.Attendance, error)
	Update(ctx context.Context, a *model.Attendance) error
	List(ctx context.Context, f AttendanceFilter) ([]model.Attendance, int64, error)
	FirstScansByRecorders(ctx context.Context, recorderIDs []string, date time.Time) (map[string]time.Time, error)
	CountByStatus(ctx context.Context, date time.Time) (map[string]int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

// CreateIfAbsent inserts the row unless the student already has one for the
// date. It reports whether a row was inserted.
func (r *attendanceRepo) CreateIfAbsent(ctx context.Context, a *model.Attendance) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit("Student", "Recorder").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Student.Class").
		Preload("Recorder").
		Where("attendance_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) GetByStudentDate(ctx context.Context, studentID string, date time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Student.Class").
		Preload("Recorder").
		Where("student_id = ? AND date = ?", studentID, date.Format(dateLayout)).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Omit("Student", "Recorder").Save(a).Error
}

func (r *attendanceRepo) List(ctx context.Context, f AttendanceFilter) ([]model.Attendance, int64, error) {
	var rows []model.Attendance
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Joins("JOIN students ON students.id = attendance.student_id")
	if f.DateFrom != nil {
		db = db.Where("attendance.date >= ?", f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		db = db.Where("attendance.date <= ?", f.DateTo.Format(dateLayout))
	}
	if f.ClassID != "" {
		db = db.Where("students.class_id = ?", f.ClassID)
	}
	if f.Status != "" {
		db = db.Where("attendance.status = ?", f.Status)
	}
	db = db.Scopes(Search(f.Student, "students.student_id", "students.lrn", "students.first_name", "students.last_name"))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Student.Class").
		Preload("Recorder").
		Order("attendance.date DESC, attendance.check_in_time ASC NULLS LAST").
		Scopes(Paginate(f.Offset, f.Limit)).
		Find(&rows).Error
	return rows, total, err
}

// FirstScansByRecorders returns, per user, the earliest check-in they
// recorded on date.
func (r *attendanceRepo) FirstScansByRecorders(ctx context.Context, recorderIDs []string, date time.Time) (map[string]time.Time, error) {
	result := make(map[string]time.Time, len(recorderIDs))
	if len(recorderIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		RecordedBy string
		FirstScan  time.Time
	}
	err := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Select("recorded_by, MIN(check_in_time) AS first_scan").
		Where("recorded_by IN ? AND date = ? AND check_in_time IS NOT NULL", recorderIDs, date.Format(dateLayout)).
		Group("recorded_by").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.RecordedBy] = row.FirstScan
	}
	return result, nil
}

func (r *attendanceRepo) CountByStatus(ctx context.Context, date time.Time) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Select("status, COUNT(*) AS n").
		Where("date = ?", date.Format(dateLayout)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

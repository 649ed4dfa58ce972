//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/database"
	pkglogger "github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=school_scan password=school_scan dbname=school_scan_test sslmode=disable TimeZone=Asia/Manila"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

type fixture struct {
	teacher *model.User
	year    *model.SchoolYear
	class   *model.Class
	student *model.Student
}

// setupFixture creates a teacher, school year, class and student and returns a cleanup func.
func setupFixture(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()
	n := time.Now().UnixNano()

	f := &fixture{}
	f.teacher = &model.User{
		Username:     fmt.Sprintf("t%d", n),
		FullName:     "Maria Santos",
		PasswordHash: "x",
		Role:         model.RoleTeacher,
		IsActive:     true,
	}
	if err := testDB.WithContext(ctx).Create(f.teacher).Error; err != nil {
		t.Fatalf("create teacher: %v", err)
	}

	startYear := 3000 + int(n%5000)
	f.year = &model.SchoolYear{
		Name:      fmt.Sprintf("%d-%d", startYear, startYear+1),
		StartDate: time.Date(startYear, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(startYear+1, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := testDB.WithContext(ctx).Create(f.year).Error; err != nil {
		t.Fatalf("create school year: %v", err)
	}

	f.class = &model.Class{
		GradeLevel:   "Grade 7",
		Section:      fmt.Sprintf("S%d", n),
		TeacherID:    &f.teacher.UserID,
		SchoolYearID: f.year.SchoolYearID,
		IsActive:     true,
	}
	if err := testDB.WithContext(ctx).Create(f.class).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}

	f.student = &model.Student{
		StudentID: fmt.Sprintf("ST%d", n%1_000_000_000),
		FirstName: "Juan",
		LastName:  "Dela_Cruz",
		ClassID:   &f.class.ClassID,
		IsActive:  true,
	}
	if err := testDB.WithContext(ctx).Create(f.student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}

	cleanup := func() {
		testDB.Exec("DELETE FROM attendance WHERE student_id = ?", f.student.ID)
		testDB.Exec("DELETE FROM students WHERE id = ?", f.student.ID)
		testDB.Exec("DELETE FROM holidays WHERE school_year_id = ?", f.year.SchoolYearID)
		testDB.Exec("DELETE FROM classes WHERE class_id = ?", f.class.ClassID)
		testDB.Exec("DELETE FROM school_years WHERE school_year_id = ?", f.year.SchoolYearID)
		testDB.Exec("DELETE FROM auth_events WHERE user_id = ?", f.teacher.UserID)
		testDB.Exec("DELETE FROM users WHERE user_id = ?", f.teacher.UserID)
	}
	return f, cleanup
}

// ═══════════════════════════════════════════════════════════
// Transactions
// ═══════════════════════════════════════════════════════════

func TestTransaction_RollbackOnError(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.SchoolYear.ClearActive(ctx); err != nil {
			return err
		}
		f.year.IsActive = true
		if err := txRepo.SchoolYear.Update(ctx, f.year); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want boom", err)
	}

	got, err := repo.SchoolYear.GetByID(ctx, f.year.SchoolYearID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.IsActive {
		t.Error("activation should have been rolled back")
	}
}

func TestTransaction_Commit(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		f.year.IsActive = true
		return txRepo.SchoolYear.Update(ctx, f.year)
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}

	active, err := repo.SchoolYear.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if active.SchoolYearID != f.year.SchoolYearID {
		t.Errorf("active year = %s, want %s", active.SchoolYearID, f.year.SchoolYearID)
	}
	_ = repo.SchoolYear.ClearActive(ctx)
}

// ═══════════════════════════════════════════════════════════
// Attendance
// ═══════════════════════════════════════════════════════════

func TestAttendance_CreateIfAbsent_Duplicate(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	at := time.Date(2026, 10, 5, 7, 20, 0, 0, time.UTC)

	first := &model.Attendance{
		StudentID:   f.student.ID,
		Date:        day,
		CheckInTime: &at,
		Status:      model.AttendancePresent,
		RecordedBy:  &f.teacher.UserID,
	}
	created, err := repo.Attendance.CreateIfAbsent(ctx, first)
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	later := at.Add(time.Hour)
	second := &model.Attendance{
		StudentID:   f.student.ID,
		Date:        day,
		CheckInTime: &later,
		Status:      model.AttendanceLate,
	}
	created, err = repo.Attendance.CreateIfAbsent(ctx, second)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Error("second insert for the same date must be skipped")
	}

	rows, total, err := repo.Attendance.List(ctx, repository.AttendanceFilter{DateFrom: &day, DateTo: &day, Student: f.student.StudentID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Status != model.AttendancePresent {
		t.Errorf("rows = %+v total = %d", rows, total)
	}

	scans, err := repo.Attendance.FirstScansByRecorders(ctx, []string{f.teacher.UserID}, day)
	if err != nil {
		t.Fatalf("FirstScansByRecorders: %v", err)
	}
	if got := scans[f.teacher.UserID]; !got.Equal(at) {
		t.Errorf("first scan = %v, want %v", got, at)
	}
}

// ═══════════════════════════════════════════════════════════
// Auth events
// ═══════════════════════════════════════════════════════════

func TestAuthEvent_DayBounds(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	events := []model.AuthEvent{
		{UserID: f.teacher.UserID, Event: model.AuthEventLogin, OccurredAt: day.Add(7 * time.Hour)},
		{UserID: f.teacher.UserID, Event: model.AuthEventLogin, OccurredAt: day.Add(9 * time.Hour)},
		{UserID: f.teacher.UserID, Event: model.AuthEventLogout, OccurredAt: day.Add(12 * time.Hour)},
		{UserID: f.teacher.UserID, Event: model.AuthEventLogout, OccurredAt: day.Add(16 * time.Hour)},
		{UserID: f.teacher.UserID, Event: model.AuthEventLogin, OccurredAt: day.Add(30 * time.Hour)},
	}
	for i := range events {
		if err := repo.AuthEvent.Create(ctx, &events[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	bounds, err := repo.AuthEvent.DayBounds(ctx, []string{f.teacher.UserID}, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	b := bounds[f.teacher.UserID]
	if b.Login == nil || !b.Login.Equal(day.Add(7*time.Hour)) {
		t.Errorf("login = %v", b.Login)
	}
	if b.Logout == nil || !b.Logout.Equal(day.Add(16*time.Hour)) {
		t.Errorf("logout = %v", b.Logout)
	}
}

// ═══════════════════════════════════════════════════════════
// Search
// ═══════════════════════════════════════════════════════════

func TestStudent_SearchEscapesWildcards(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	_, total, err := repo.Student.List(ctx, repository.StudentFilter{Search: "dela_cruz", ClassID: f.class.ClassID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("literal underscore search total = %d, want 1", total)
	}

	_, total, err = repo.Student.List(ctx, repository.StudentFilter{Search: "dela%", ClassID: f.class.ClassID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Errorf("percent must not act as a wildcard, total = %d", total)
	}

	found, err := repo.Student.GetByCode(ctx, f.student.StudentID)
	if err != nil || found.ID != f.student.ID {
		t.Errorf("GetByCode = %v, %v", found, err)
	}
}

// ═══════════════════════════════════════════════════════════
// Holidays & settings & logs
// ═══════════════════════════════════════════════════════════

func TestHoliday_CreateBatchSkipsExisting(t *testing.T) {
	f, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	d := f.year.StartDate.AddDate(0, 1, 0)

	batch := []model.Holiday{{SchoolYearID: f.year.SchoolYearID, Date: d, Name: "Foundation Day"}}
	n, err := repo.Holiday.CreateBatch(ctx, batch)
	if err != nil || n != 1 {
		t.Fatalf("first batch: n=%d err=%v", n, err)
	}
	again := []model.Holiday{{SchoolYearID: f.year.SchoolYearID, Date: d, Name: "Foundation Day"}}
	n, err = repo.Holiday.CreateBatch(ctx, again)
	if err != nil || n != 0 {
		t.Fatalf("second batch: n=%d err=%v", n, err)
	}

	h, err := repo.Holiday.GetByDate(ctx, d)
	if err != nil || h.Name != "Foundation Day" {
		t.Errorf("GetByDate = %v, %v", h, err)
	}
}

func TestSystemSetting_SaveAndGet(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	orig, err := repo.Setting.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer repo.Setting.Save(ctx, orig)

	updated := *orig
	updated.ClassStartTime = "08:00"
	updated.LateThresholdMinutes = 10
	if err := repo.Setting.Save(ctx, &updated); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Setting.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ClassStartTime != "08:00" || got.LateThresholdMinutes != 10 {
		t.Errorf("settings = %+v", got)
	}
}

func TestLogSink_WritesRow(t *testing.T) {
	repo := repository.NewRepository(testDB)
	sink := repository.NewLogSink(repo.Log)
	ctx := context.Background()
	ip := "10.0.0.1"
	msg := fmt.Sprintf("integration log %d", time.Now().UnixNano())

	err := sink.WriteLog(ctx, &pkglogger.Entry{
		Level:   "warn",
		Message: msg,
		Context: map[string]interface{}{"path": "/students"},
		IP:      &ip,
		Time:    time.Now(),
	})
	if err != nil {
		t.Fatalf("WriteLog: %v", err)
	}

	logs, total, err := repo.Log.List(ctx, repository.LogFilter{Search: msg, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || logs[0].Level != "warn" {
		t.Errorf("logs = %+v", logs)
	}
	testDB.Exec("DELETE FROM logs WHERE message = ?", msg)
}

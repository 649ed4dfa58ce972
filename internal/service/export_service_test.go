package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
)

func setupTestExportService(now time.Time) (ExportService, *mocks) {
	m := newMocks()
	svc := NewExportService(m.repo, testLoc, zap.NewNop())
	svc.(*exportService).now = fixedClock(now)
	return svc, m
}

func TestExportService_Students(t *testing.T) {
	svc, m := setupTestExportService(time.Date(2024, time.September, 2, 9, 0, 0, 0, testLoc))
	sy := m.seedSchoolYear("2024-2025", true)
	c := m.seedClass("Grade 7", "Rizal", sy.SchoolYearID, nil)
	m.seedStudent("2024-0001", &c.ClassID, true)
	m.seedStudent("2024-0002", nil, false)

	buf, name, err := svc.Students(context.Background(), &dto.StudentListRequest{Tab: "all"})
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if name != "students_20240902.xlsx" {
		t.Errorf("unexpected filename %s", name)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Student ID" || rows[1][0] != "2024-0001" || rows[1][4] != "Grade 7 - Rizal" {
		t.Errorf("unexpected rows %v", rows[:2])
	}
}

func TestExportService_Attendance(t *testing.T) {
	now := time.Date(2024, time.September, 2, 9, 0, 0, 0, testLoc)
	svc, m := setupTestExportService(now)
	st := m.seedStudent("2024-0001", nil, true)
	m.scan(st.ID, "", now.Add(-80*time.Minute))

	buf, name, err := svc.Attendance(context.Background(), &dto.AttendanceExportRequest{})
	if err != nil {
		t.Fatalf("Attendance: %v", err)
	}
	if name != "attendance_20240902_20240902.xlsx" {
		t.Errorf("unexpected filename %s", name)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Attendance")
	if len(rows) != 2 || rows[1][1] != "2024-0001" || rows[1][4] != "07:40" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestExportService_Attendance_Ranges(t *testing.T) {
	svc, _ := setupTestExportService(time.Date(2024, time.September, 2, 9, 0, 0, 0, testLoc))

	_, _, err := svc.Attendance(context.Background(), &dto.AttendanceExportRequest{DateFrom: "2024-09-02", DateTo: "2024-09-01"})
	if !errors.Is(err, ErrExportRangeInvalid) {
		t.Errorf("expected ErrExportRangeInvalid, got %v", err)
	}
	_, _, err = svc.Attendance(context.Background(), &dto.AttendanceExportRequest{DateFrom: "2024-01-01", DateTo: "2024-09-01"})
	if !errors.Is(err, ErrExportRangeTooLong) {
		t.Errorf("expected ErrExportRangeTooLong, got %v", err)
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
)

// ── export errors ──

var (
	ErrExportRangeInvalid = errors.New("date_from must be on or before date_to")
	ErrExportRangeTooLong = errors.New("exports are limited to 93 days")
	ErrExportGenerateFail = errors.New("failed to generate the Excel file")
)

const exportMaxDays = 93

// ExportService Excel downloads of list pages.
// The buffer is returned to the handler, which sets the download headers.
type ExportService interface {
	// Students exports every student matching the list filters, ignoring pagination.
	Students(ctx context.Context, req *dto.StudentListRequest) (*bytes.Buffer, string, error)
	// Attendance exports a date range, defaulting to today.
	Attendance(ctx context.Context, req *dto.AttendanceExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, loc: loc, logger: logger, now: time.Now}
}

// ────────────────────── Students ──────────────────────

func (s *exportService) Students(ctx context.Context, req *dto.StudentListRequest) (*bytes.Buffer, string, error) {
	students, _, err := s.repo.Student.List(ctx, repository.StudentFilter{
		Search:  req.Search,
		ClassID: req.ClassID,
		Grade:   req.Grade,
		Active:  req.ActiveFilter(),
	})
	if err != nil {
		s.logger.Error("list students for export failed", zap.Error(err))
		return nil, "", err
	}

	headers := []string{"Student ID", "LRN", "Last Name", "First Name", "Class", "Parent Name", "Parent Phone", "Parent Email", "Active", "SMS"}
	rows := make([][]any, 0, len(students))
	for i := range students {
		st := &students[i]
		class := ""
		if st.Class != nil {
			class = st.Class.Label()
		}
		rows = append(rows, []any{
			st.StudentID, deref(st.LRN), st.LastName, st.FirstName, class,
			st.ParentName, st.ParentPhone, st.ParentEmail, yesNo(st.IsActive), yesNo(st.SMSEnabled),
		})
	}

	buf, err := s.workbook("Students", headers, rows)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("students_%s.xlsx", s.now().In(s.loc).Format("20060102")), nil
}

// ────────────────────── Attendance ──────────────────────

func (s *exportService) Attendance(ctx context.Context, req *dto.AttendanceExportRequest) (*bytes.Buffer, string, error) {
	now := s.now()
	from, err := parseDay(req.DateFrom, now, s.loc)
	if err != nil {
		return nil, "", ErrAttendanceDateInvalid
	}
	to := from
	if req.DateTo != "" {
		if to, err = parseDay(req.DateTo, now, s.loc); err != nil {
			return nil, "", ErrAttendanceDateInvalid
		}
	}
	if to.Before(from) {
		return nil, "", ErrExportRangeInvalid
	}
	if to.Sub(from) > exportMaxDays*24*time.Hour {
		return nil, "", ErrExportRangeTooLong
	}

	records, _, err := s.repo.Attendance.List(ctx, repository.AttendanceFilter{
		DateFrom: &from,
		DateTo:   &to,
		ClassID:  req.ClassID,
	})
	if err != nil {
		s.logger.Error("list attendance for export failed", zap.Error(err))
		return nil, "", err
	}

	headers := []string{"Date", "Student ID", "Name", "Class", "Check-in", "Status", "Recorded By", "Remarks"}
	rows := make([][]any, 0, len(records))
	for i := range records {
		r := toAttendanceResponse(&records[i], s.loc)
		rows = append(rows, []any{
			r.Date, r.StudentID, r.StudentName, r.ClassLabel, r.CheckInTime, r.Status, r.RecordedBy, r.Remarks,
		})
	}

	buf, err := s.workbook("Attendance", headers, rows)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("attendance_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return buf, name, nil
}

// ── helpers ──

// workbook writes a single-sheet file with a bold, frozen header row.
func (s *exportService) workbook(sheet string, headers []string, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(sheet, "A", colName(len(headers)-1), 18)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for r, row := range rows {
		if err := f.SetSheetRow(sheet, cell("A", r+2), &row); err != nil {
			s.logger.Error("write export row failed", zap.Error(err))
			return nil, ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write Excel failed", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

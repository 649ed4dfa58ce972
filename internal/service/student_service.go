package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/validation"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// ── student errors ──

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentIDTaken     = errors.New("student ID is already used by another student")
	ErrLRNTaken           = errors.New("LRN is already used by another student")
	ErrLRNInvalid         = errors.New("LRN must be exactly 12 digits")
	ErrImportFileInvalid  = errors.New("the spreadsheet could not be read")
	ErrImportNoActiveYear = errors.New("activate a school year before importing students")
)

const (
	qrSize         = 256
	importMaxRows  = 5000
	importMaxBytes = 10 << 20
)

// importColumns header row of the student import template
var importColumns = []string{"Student ID", "LRN", "First Name", "Last Name", "Grade", "Section", "Parent Name", "Parent Phone", "Parent Email"}

// StudentService student records, badges and bulk import
type StudentService interface {
	List(ctx context.Context, req *dto.StudentListRequest) (*dto.Page[dto.StudentResponse], error)
	GetByID(ctx context.Context, id string) (*dto.StudentResponse, error)
	Create(ctx context.Context, form *dto.StudentForm, callerID string) (*dto.StudentResponse, error)
	Update(ctx context.Context, id string, form *dto.StudentForm, callerID string) (*dto.StudentResponse, error)
	ToggleActive(ctx context.Context, id string, callerID string) (*dto.StudentResponse, error)
	ToggleSMS(ctx context.Context, id string, callerID string) (*dto.StudentResponse, error)
	// QRCode renders the student ID as a PNG badge for the scanner.
	QRCode(ctx context.Context, id string) ([]byte, error)
	// Import upserts students by student ID from an xlsx sheet laid out as importColumns.
	Import(ctx context.Context, r io.Reader, callerID string) (*dto.StudentImportResult, error)
}

type studentService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewStudentService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) (*dto.Page[dto.StudentResponse], error) {
	students, total, err := s.repo.Student.List(ctx, repository.StudentFilter{
		Search:  req.Search,
		ClassID: req.ClassID,
		Grade:   req.Grade,
		Active:  req.ActiveFilter(),
		Offset:  req.GetOffset(),
		Limit:   req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, err
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		items = append(items, *s.toResponse(&students[i]))
	}
	return dto.NewPage(items, &req.PaginationRequest, total), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(student), nil
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, form *dto.StudentForm, callerID string) (*dto.StudentResponse, error) {
	if err := s.validate(ctx, form, ""); err != nil {
		return nil, err
	}

	student := &model.Student{IsActive: true}
	applyStudentForm(student, form)
	student.Stamp(callerID)

	if err := s.repo.Student.Create(ctx, student); err != nil {
		s.logger.Error("create student failed", zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, student)
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id string, form *dto.StudentForm, callerID string) (*dto.StudentResponse, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, form, id); err != nil {
		return nil, err
	}

	applyStudentForm(student, form)
	student.Class = nil
	student.Touch(callerID)

	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("update student failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, student)
}

// ────────────────────── Toggles ──────────────────────

func (s *studentService) ToggleActive(ctx context.Context, id string, callerID string) (*dto.StudentResponse, error) {
	return s.toggle(ctx, id, callerID, func(st *model.Student) { st.IsActive = !st.IsActive })
}

func (s *studentService) ToggleSMS(ctx context.Context, id string, callerID string) (*dto.StudentResponse, error) {
	return s.toggle(ctx, id, callerID, func(st *model.Student) { st.SMSEnabled = !st.SMSEnabled })
}

func (s *studentService) toggle(ctx context.Context, id, callerID string, flip func(*model.Student)) (*dto.StudentResponse, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	flip(student)
	student.Touch(callerID)

	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("update student flag failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(student), nil
}

// ────────────────────── QRCode ──────────────────────

func (s *studentService) QRCode(ctx context.Context, id string) ([]byte, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(student.StudentID, qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("encode QR code failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return png, nil
}

// ────────────────────── Import ──────────────────────

func (s *studentService) Import(ctx context.Context, r io.Reader, callerID string) (*dto.StudentImportResult, error) {
	sy, err := s.repo.SchoolYear.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImportNoActiveYear
		}
		return nil, err
	}

	f, err := excelize.OpenReader(io.LimitReader(r, importMaxBytes))
	if err != nil {
		s.logger.Warn("student import rejected", zap.Error(err))
		return nil, ErrImportFileInvalid
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) == 0 {
		return nil, ErrImportFileInvalid
	}

	result := &dto.StudentImportResult{}
	classCache := make(map[string]*string)

	for i, row := range rows[1:] {
		line := i + 2
		if line > importMaxRows+1 {
			result.Errors = append(result.Errors, fmt.Sprintf("rows after %d were ignored", importMaxRows))
			break
		}
		if isBlankRow(row) {
			continue
		}

		form := &dto.StudentForm{
			StudentID:   cellAt(row, 0),
			LRN:         cellAt(row, 1),
			FirstName:   cellAt(row, 2),
			LastName:    cellAt(row, 3),
			ParentName:  cellAt(row, 6),
			ParentPhone: cellAt(row, 7),
			ParentEmail: cellAt(row, 8),
			SMSEnabled:  cellAt(row, 7) != "",
		}
		if form.StudentID == "" || form.FirstName == "" || form.LastName == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: student ID, first name and last name are required", line))
			continue
		}

		grade, section := cellAt(row, 4), cellAt(row, 5)
		if grade != "" && section != "" {
			key := strings.ToLower(grade + "|" + section)
			classID, ok := classCache[key]
			if !ok {
				if c, err := s.repo.Class.FindByGradeSection(ctx, grade, section, sy.SchoolYearID); err == nil {
					classID = &c.ClassID
				}
				classCache[key] = classID
			}
			if classID == nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: class %s - %s not found in %s", line, grade, section, sy.Name))
				continue
			}
			form.ClassID = *classID
		}

		created, err := s.upsert(ctx, form, callerID)
		if err != nil {
			if verrs, ok := AsValidation(err); ok {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", line, strings.Join(verrs.Messages(), "; ")))
				continue
			}
			return nil, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info("students imported", logger.Audit(),
		zap.String("user_id", callerID),
		zap.Int("created", result.Created), zap.Int("updated", result.Updated), zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *studentService) upsert(ctx context.Context, form *dto.StudentForm, callerID string) (bool, error) {
	existing, err := s.repo.Student.GetByStudentID(ctx, form.StudentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if existing == nil {
		_, err := s.Create(ctx, form, callerID)
		return err == nil, err
	}

	form.SMSEnabled = existing.SMSEnabled
	if form.ClassID == "" {
		form.ClassID = deref(existing.ClassID)
	}
	_, err = s.Update(ctx, existing.ID, form, callerID)
	return false, err
}

// ── helpers ──

func (s *studentService) get(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("load student failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

func (s *studentService) reload(ctx context.Context, student *model.Student) (*dto.StudentResponse, error) {
	fresh, err := s.repo.Student.GetByID(ctx, student.ID)
	if err != nil {
		return s.toResponse(student), nil
	}
	return s.toResponse(fresh), nil
}

func (s *studentService) validate(ctx context.Context, form *dto.StudentForm, excludeID string) error {
	var verrs ValidationErrors
	form.StudentID = strings.TrimSpace(form.StudentID)
	form.LRN = strings.TrimSpace(form.LRN)

	taken, err := s.repo.Student.StudentIDExists(ctx, form.StudentID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		verrs.Add(ErrStudentIDTaken)
	}

	if form.LRN != "" {
		if !validation.IsLRN(form.LRN) {
			verrs.Add(ErrLRNInvalid)
		} else {
			taken, err := s.repo.Student.LRNExists(ctx, form.LRN, excludeID)
			if err != nil {
				return err
			}
			if taken {
				verrs.Add(ErrLRNTaken)
			}
		}
	}

	if form.ClassID != "" {
		if _, err := s.repo.Class.GetByID(ctx, form.ClassID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			verrs.Add(ErrClassNotFound)
		}
	}

	return verrs.Err()
}

func applyStudentForm(st *model.Student, form *dto.StudentForm) {
	st.StudentID = strings.TrimSpace(form.StudentID)
	st.LRN = optional(form.LRN)
	st.FirstName = strings.TrimSpace(form.FirstName)
	st.LastName = strings.TrimSpace(form.LastName)
	st.ClassID = optional(form.ClassID)
	st.ParentName = strings.TrimSpace(form.ParentName)
	st.ParentPhone = strings.TrimSpace(form.ParentPhone)
	st.ParentEmail = strings.TrimSpace(form.ParentEmail)
	st.SMSEnabled = form.SMSEnabled
}

func (s *studentService) toResponse(st *model.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:          st.ID,
		StudentID:   st.StudentID,
		LRN:         deref(st.LRN),
		FirstName:   st.FirstName,
		LastName:    st.LastName,
		FullName:    st.FullName(),
		ClassID:     deref(st.ClassID),
		ParentName:  st.ParentName,
		ParentPhone: st.ParentPhone,
		ParentEmail: st.ParentEmail,
		IsActive:    st.IsActive,
		SMSEnabled:  st.SMSEnabled,
		CreatedAt:   formatStamp(&st.CreatedAt, s.loc),
	}
	if st.Class != nil {
		resp.ClassLabel = st.Class.Label()
	}
	return resp
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

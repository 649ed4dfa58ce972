package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// ── class errors ──

var (
	ErrClassNotFound  = errors.New("class not found")
	ErrClassDuplicate = errors.New("a class with this grade and section already exists in the school year")
	ErrClassInUse     = errors.New("the class still has students")
	ErrAdviserInvalid = errors.New("adviser must be an active teacher")
)

// ClassService class sections per school year
type ClassService interface {
	List(ctx context.Context, req *dto.ClassListRequest) (*dto.Page[dto.ClassResponse], error)
	GetByID(ctx context.Context, id string) (*dto.ClassResponse, error)
	Create(ctx context.Context, form *dto.ClassForm, callerID string) (*dto.ClassResponse, error)
	Update(ctx context.Context, id string, form *dto.ClassForm, callerID string) (*dto.ClassResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// Options lists active classes of the active school year for dropdowns.
	Options(ctx context.Context) ([]dto.ClassOption, error)
	GradeLevels(ctx context.Context) ([]string, error)
}

type classService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewClassService(repo *repository.Repository, logger *zap.Logger) ClassService {
	return &classService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *classService) List(ctx context.Context, req *dto.ClassListRequest) (*dto.Page[dto.ClassResponse], error) {
	classes, total, err := s.repo.Class.List(ctx, repository.ClassFilter{
		Search:       req.Search,
		Grade:        req.Grade,
		SchoolYearID: req.SchoolYearID,
		Offset:       req.GetOffset(),
		Limit:        req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list classes failed", zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ClassID)
	}
	counts, err := s.repo.Class.StudentCounts(ctx, ids)
	if err != nil {
		s.logger.Error("count class students failed", zap.Error(err))
		return nil, err
	}

	items := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		resp := toClassResponse(&classes[i])
		resp.StudentCount = counts[classes[i].ClassID]
		items = append(items, *resp)
	}
	return dto.NewPage(items, &req.PaginationRequest, total), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classService) GetByID(ctx context.Context, id string) (*dto.ClassResponse, error) {
	class, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toClassResponse(class)
	resp.StudentCount, _ = s.repo.Class.CountStudents(ctx, id)
	return resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *classService) Create(ctx context.Context, form *dto.ClassForm, callerID string) (*dto.ClassResponse, error) {
	if err := s.validate(ctx, form, ""); err != nil {
		return nil, err
	}

	class := &model.Class{
		GradeLevel:   strings.TrimSpace(form.GradeLevel),
		Section:      strings.TrimSpace(form.Section),
		TeacherID:    optional(form.TeacherID),
		SchoolYearID: form.SchoolYearID,
		IsActive:     form.IsActive,
	}
	class.Stamp(callerID)

	if err := s.repo.Class.Create(ctx, class); err != nil {
		s.logger.Error("create class failed", zap.Error(err))
		return nil, err
	}

	return toClassResponse(class), nil
}

// ────────────────────── Update ──────────────────────

func (s *classService) Update(ctx context.Context, id string, form *dto.ClassForm, callerID string) (*dto.ClassResponse, error) {
	class, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, form, id); err != nil {
		return nil, err
	}

	class.GradeLevel = strings.TrimSpace(form.GradeLevel)
	class.Section = strings.TrimSpace(form.Section)
	class.TeacherID = optional(form.TeacherID)
	class.SchoolYearID = form.SchoolYearID
	class.IsActive = form.IsActive
	class.Teacher = nil
	class.SchoolYear = nil
	class.Touch(callerID)

	if err := s.repo.Class.Update(ctx, class); err != nil {
		s.logger.Error("update class failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toClassResponse(class), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classService) Delete(ctx context.Context, id string, callerID string) error {
	class, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.repo.Class.CountStudents(ctx, id)
	if err != nil {
		s.logger.Error("count class students failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrClassInUse
	}

	if err := s.repo.Class.Delete(ctx, id); err != nil {
		s.logger.Error("delete class failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("class deleted", logger.Audit(),
		zap.String("user_id", callerID), zap.String("class", class.Label()))
	return nil
}

// ────────────────────── Options ──────────────────────

func (s *classService) Options(ctx context.Context) ([]dto.ClassOption, error) {
	filter := repository.ClassFilter{ActiveOnly: true}
	if sy, err := s.repo.SchoolYear.GetActive(ctx); err == nil {
		filter.SchoolYearID = sy.SchoolYearID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load active school year failed", zap.Error(err))
		return nil, err
	}

	classes, _, err := s.repo.Class.List(ctx, filter)
	if err != nil {
		s.logger.Error("list class options failed", zap.Error(err))
		return nil, err
	}

	opts := make([]dto.ClassOption, 0, len(classes))
	for i := range classes {
		opts = append(opts, dto.ClassOption{ID: classes[i].ClassID, Label: classes[i].Label()})
	}
	return opts, nil
}

func (s *classService) GradeLevels(ctx context.Context) ([]string, error) {
	grades, err := s.repo.Class.GradeLevels(ctx)
	if err != nil {
		s.logger.Error("list grade levels failed", zap.Error(err))
		return nil, err
	}
	return grades, nil
}

// ── helpers ──

func (s *classService) get(ctx context.Context, id string) (*model.Class, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("load class failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return class, nil
}

func (s *classService) validate(ctx context.Context, form *dto.ClassForm, excludeID string) error {
	var verrs ValidationErrors

	if _, err := s.repo.SchoolYear.GetByID(ctx, form.SchoolYearID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		verrs.Add(ErrSchoolYearNotFound)
	}

	if form.TeacherID != "" {
		teacher, err := s.repo.User.GetByID(ctx, form.TeacherID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verrs.Add(ErrAdviserInvalid)
		case err != nil:
			return err
		case teacher.Role != model.RoleTeacher || !teacher.IsActive:
			verrs.Add(ErrAdviserInvalid)
		}
	}

	dup, err := s.repo.Class.Exists(ctx, strings.TrimSpace(form.GradeLevel), strings.TrimSpace(form.Section), form.SchoolYearID, excludeID)
	if err != nil {
		return err
	}
	if dup {
		verrs.Add(ErrClassDuplicate)
	}

	return verrs.Err()
}

func toClassResponse(c *model.Class) *dto.ClassResponse {
	resp := &dto.ClassResponse{
		ID:           c.ClassID,
		GradeLevel:   c.GradeLevel,
		Section:      c.Section,
		Label:        c.Label(),
		TeacherID:    deref(c.TeacherID),
		SchoolYearID: c.SchoolYearID,
		IsActive:     c.IsActive,
	}
	if c.Teacher != nil {
		resp.TeacherName = c.Teacher.FullName
	}
	if c.SchoolYear != nil {
		resp.SchoolYearName = c.SchoolYear.Name
	}
	return resp
}

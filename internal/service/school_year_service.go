package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/validation"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// ── school year errors ──

var (
	ErrSchoolYearNotFound    = errors.New("school year not found")
	ErrSchoolYearNameInvalid = errors.New("name must look like 2024-2025 with consecutive years")
	ErrSchoolYearNameTaken   = errors.New("a school year with this name already exists")
	ErrSchoolYearDateInvalid = errors.New("end date must be after start date")
	ErrSchoolYearActive      = errors.New("the active school year cannot be deleted")
	ErrSchoolYearInUse       = errors.New("the school year still has classes")
	ErrHolidayFileInvalid    = errors.New("the calendar file could not be read")
)

// SchoolYearService school years and their holidays
type SchoolYearService interface {
	List(ctx context.Context) ([]dto.SchoolYearResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SchoolYearResponse, error)
	GetActive(ctx context.Context) (*dto.SchoolYearResponse, error)
	Create(ctx context.Context, form *dto.SchoolYearForm, callerID string) (*dto.SchoolYearResponse, error)
	Update(ctx context.Context, id string, form *dto.SchoolYearForm, callerID string) (*dto.SchoolYearResponse, error)
	// Activate makes id the only active school year.
	Activate(ctx context.Context, id string, callerID string) error
	Delete(ctx context.Context, id string, callerID string) error
	ListHolidays(ctx context.Context, id string) ([]dto.HolidayResponse, error)
	ImportHolidays(ctx context.Context, id string, r io.Reader, callerID string) (*dto.HolidayImportResult, error)
}

type schoolYearService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewSchoolYearService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) SchoolYearService {
	return &schoolYearService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *schoolYearService) List(ctx context.Context) ([]dto.SchoolYearResponse, error) {
	years, err := s.repo.SchoolYear.List(ctx)
	if err != nil {
		s.logger.Error("list school years failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SchoolYearResponse, 0, len(years))
	for i := range years {
		resp := s.toResponse(&years[i])
		resp.ClassCount, _ = s.repo.SchoolYear.CountClasses(ctx, years[i].SchoolYearID)
		resp.HolidayCount, _ = s.repo.Holiday.CountBySchoolYear(ctx, years[i].SchoolYearID)
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *schoolYearService) GetByID(ctx context.Context, id string) (*dto.SchoolYearResponse, error) {
	sy, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(sy), nil
}

// ────────────────────── GetActive ──────────────────────

func (s *schoolYearService) GetActive(ctx context.Context) (*dto.SchoolYearResponse, error) {
	sy, err := s.repo.SchoolYear.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolYearNotFound
		}
		s.logger.Error("load active school year failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(sy), nil
}

// ────────────────────── Create ──────────────────────

func (s *schoolYearService) Create(ctx context.Context, form *dto.SchoolYearForm, callerID string) (*dto.SchoolYearResponse, error) {
	start, end, err := s.validate(ctx, form, "")
	if err != nil {
		return nil, err
	}

	sy := &model.SchoolYear{
		Name:      strings.TrimSpace(form.Name),
		StartDate: start,
		EndDate:   end,
		IsActive:  false,
	}
	sy.Stamp(callerID)

	if err := s.repo.SchoolYear.Create(ctx, sy); err != nil {
		s.logger.Error("create school year failed", zap.Error(err))
		return nil, err
	}

	return s.toResponse(sy), nil
}

// ────────────────────── Update ──────────────────────

func (s *schoolYearService) Update(ctx context.Context, id string, form *dto.SchoolYearForm, callerID string) (*dto.SchoolYearResponse, error) {
	sy, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end, err := s.validate(ctx, form, id)
	if err != nil {
		return nil, err
	}

	sy.Name = strings.TrimSpace(form.Name)
	sy.StartDate = start
	sy.EndDate = end
	sy.Touch(callerID)

	if err := s.repo.SchoolYear.Update(ctx, sy); err != nil {
		s.logger.Error("update school year failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toResponse(sy), nil
}

// ────────────────────── Activate ──────────────────────

func (s *schoolYearService) Activate(ctx context.Context, id string, callerID string) error {
	sy, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	// ClearActive and the update commit together
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.SchoolYear.ClearActive(ctx); err != nil {
			return err
		}
		sy.IsActive = true
		sy.Touch(callerID)
		return txRepo.SchoolYear.Update(ctx, sy)
	})
	if err != nil {
		s.logger.Error("activate school year failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("school year activated", logger.Audit(),
		zap.String("user_id", callerID), zap.String("school_year", sy.Name))
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *schoolYearService) Delete(ctx context.Context, id string, callerID string) error {
	sy, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if sy.IsActive {
		return ErrSchoolYearActive
	}

	n, err := s.repo.SchoolYear.CountClasses(ctx, id)
	if err != nil {
		s.logger.Error("count classes failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrSchoolYearInUse
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Holiday.DeleteBySchoolYear(ctx, id); err != nil {
			return err
		}
		return txRepo.SchoolYear.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("delete school year failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("school year deleted", logger.Audit(),
		zap.String("user_id", callerID), zap.String("school_year", sy.Name))
	return nil
}

// ────────────────────── Holidays ──────────────────────

func (s *schoolYearService) ListHolidays(ctx context.Context, id string) ([]dto.HolidayResponse, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	holidays, err := s.repo.Holiday.ListBySchoolYear(ctx, id)
	if err != nil {
		s.logger.Error("list holidays failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	result := make([]dto.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		result = append(result, dto.HolidayResponse{
			ID:      h.HolidayID,
			Date:    h.Date.Format(dateLayout),
			Weekday: h.Date.Weekday().String(),
			Name:    h.Name,
		})
	}
	return result, nil
}

func (s *schoolYearService) ImportHolidays(ctx context.Context, id string, r io.Reader, callerID string) (*dto.HolidayImportResult, error) {
	sy, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := time.Date(sy.StartDate.Year(), sy.StartDate.Month(), sy.StartDate.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(sy.EndDate.Year(), sy.EndDate.Month(), sy.EndDate.Day(), 0, 0, 0, 0, s.loc)

	parsed, skipped, err := parseHolidayICS(r, from, to, s.loc)
	if err != nil {
		s.logger.Warn("holiday calendar rejected", zap.String("id", id), zap.Error(err))
		return nil, ErrHolidayFileInvalid
	}

	holidays := make([]model.Holiday, 0, len(parsed))
	for _, p := range parsed {
		holidays = append(holidays, model.Holiday{
			SchoolYearID: id,
			Date:         p.Date,
			Name:         p.Name,
		})
	}

	inserted, err := s.repo.Holiday.CreateBatch(ctx, holidays)
	if err != nil {
		s.logger.Error("save holidays failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("holidays imported", logger.Audit(),
		zap.String("user_id", callerID), zap.String("school_year", sy.Name), zap.Int64("imported", inserted))

	return &dto.HolidayImportResult{
		Imported: int(inserted),
		Skipped:  skipped + len(holidays) - int(inserted),
	}, nil
}

// ── helpers ──

func (s *schoolYearService) get(ctx context.Context, id string) (*model.SchoolYear, error) {
	sy, err := s.repo.SchoolYear.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolYearNotFound
		}
		s.logger.Error("load school year failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sy, nil
}

func (s *schoolYearService) validate(ctx context.Context, form *dto.SchoolYearForm, excludeID string) (time.Time, time.Time, error) {
	var verrs ValidationErrors
	name := strings.TrimSpace(form.Name)

	if !validation.IsSchoolYearName(name) {
		verrs.Add(ErrSchoolYearNameInvalid)
	} else {
		taken, err := s.repo.SchoolYear.NameExists(ctx, name, excludeID)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if taken {
			verrs.Add(ErrSchoolYearNameTaken)
		}
	}

	start, errStart := time.Parse(dateLayout, form.StartDate)
	end, errEnd := time.Parse(dateLayout, form.EndDate)
	if errStart != nil || errEnd != nil || !end.After(start) {
		verrs.Add(ErrSchoolYearDateInvalid)
	}

	if err := verrs.Err(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (s *schoolYearService) toResponse(sy *model.SchoolYear) *dto.SchoolYearResponse {
	return &dto.SchoolYearResponse{
		ID:        sy.SchoolYearID,
		Name:      sy.Name,
		StartDate: sy.StartDate.Format(dateLayout),
		EndDate:   sy.EndDate.Format(dateLayout),
		IsActive:  sy.IsActive,
	}
}

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
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/validation"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

var (
	ErrClassStartInvalid    = errors.New("class start time must be HH:MM")
	ErrLateThresholdInvalid = errors.New("late threshold must be between 0 and 240 minutes")
)

// SettingsService school-wide attendance settings
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, form *dto.SettingsForm, callerID string) (*dto.SettingsResponse, error)
	// Cutoff is class start plus the late threshold on day.
	Cutoff(ctx context.Context, day time.Time) (time.Time, error)
}

type settingsService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewSettingsService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, loc: loc, logger: logger}
}

func (s *settingsService) load(ctx context.Context) (*model.SystemSetting, error) {
	setting, err := s.repo.Setting.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.SystemSetting{
				Singleton:            true,
				SchoolName:           "School",
				ClassStartTime:       model.DefaultClassStartTime,
				LateThresholdMinutes: model.DefaultLateThresholdMinutes,
			}, nil
		}
		s.logger.Error("load settings failed", zap.Error(err))
		return nil, err
	}
	return setting, nil
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	setting, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(setting), nil
}

func (s *settingsService) Update(ctx context.Context, form *dto.SettingsForm, callerID string) (*dto.SettingsResponse, error) {
	var verrs ValidationErrors
	if !validation.IsHHMM(form.ClassStartTime) {
		verrs.Add(ErrClassStartInvalid)
	}
	if form.LateThresholdMinutes < 0 || form.LateThresholdMinutes > 240 {
		verrs.Add(ErrLateThresholdInvalid)
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	setting, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	setting.SchoolName = strings.TrimSpace(form.SchoolName)
	setting.ClassStartTime = form.ClassStartTime
	setting.LateThresholdMinutes = form.LateThresholdMinutes
	setting.Touch(callerID)

	if err := s.repo.Setting.Save(ctx, setting); err != nil {
		s.logger.Error("save settings failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("attendance settings changed", logger.Audit(),
		zap.String("user_id", callerID),
		zap.String("class_start_time", setting.ClassStartTime),
		zap.Int("late_threshold_minutes", setting.LateThresholdMinutes))

	return s.toResponse(setting), nil
}

func (s *settingsService) Cutoff(ctx context.Context, day time.Time) (time.Time, error) {
	setting, err := s.load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return monitoring.Cutoff(day, setting.ClassStartTime, setting.LateThresholdMinutes, s.loc)
}

func (s *settingsService) toResponse(setting *model.SystemSetting) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{
		SchoolName:           setting.SchoolName,
		ClassStartTime:       setting.ClassStartTime,
		LateThresholdMinutes: setting.LateThresholdMinutes,
	}
	if !setting.UpdatedAt.IsZero() {
		resp.UpdatedAt = setting.UpdatedAt.In(s.loc).Format(stampLayout)
	}
	return resp
}

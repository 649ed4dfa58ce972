package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

// SystemSettingRepository the singleton system_settings row
type SystemSettingRepository interface {
	Get(ctx context.Context) (*model.SystemSetting, error)
	Save(ctx context.Context, s *model.SystemSetting) error
}

type systemSettingRepo struct {
	db *gorm.DB
}

func NewSystemSettingRepo(db *gorm.DB) SystemSettingRepository {
	return &systemSettingRepo{db: db}
}

func (r *systemSettingRepo) Get(ctx context.Context) (*model.SystemSetting, error) {
	var s model.SystemSetting
	err := r.db.WithContext(ctx).
		Where("singleton = ?", true).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save upserts the row; gorm falls back to INSERT when the UPDATE matches nothing.
func (r *systemSettingRepo) Save(ctx context.Context, s *model.SystemSetting) error {
	s.Singleton = true
	return r.db.WithContext(ctx).Save(s).Error
}

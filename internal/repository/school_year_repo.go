package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

// SchoolYearRepository school_years table access
type SchoolYearRepository interface {
	Create(ctx context.Context, sy *model.SchoolYear) error
	GetByID(ctx context.Context, id string) (*model.SchoolYear, error)
	GetActive(ctx context.Context) (*model.SchoolYear, error)
	List(ctx context.Context) ([]model.SchoolYear, error)
	Update(ctx context.Context, sy *model.SchoolYear) error
	Delete(ctx context.Context, id string) error
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	ClearActive(ctx context.Context) error
	CountClasses(ctx context.Context, id string) (int64, error)
}

type schoolYearRepo struct {
	db *gorm.DB
}

func NewSchoolYearRepo(db *gorm.DB) SchoolYearRepository {
	return &schoolYearRepo{db: db}
}

func (r *schoolYearRepo) Create(ctx context.Context, sy *model.SchoolYear) error {
	return r.db.WithContext(ctx).Create(sy).Error
}

func (r *schoolYearRepo) GetByID(ctx context.Context, id string) (*model.SchoolYear, error) {
	var sy model.SchoolYear
	err := r.db.WithContext(ctx).
		Where("school_year_id = ?", id).
		First(&sy).Error
	if err != nil {
		return nil, err
	}
	return &sy, nil
}

func (r *schoolYearRepo) GetActive(ctx context.Context) (*model.SchoolYear, error) {
	var sy model.SchoolYear
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&sy).Error
	if err != nil {
		return nil, err
	}
	return &sy, nil
}

func (r *schoolYearRepo) List(ctx context.Context) ([]model.SchoolYear, error) {
	var years []model.SchoolYear
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&years).Error
	return years, err
}

func (r *schoolYearRepo) Update(ctx context.Context, sy *model.SchoolYear) error {
	return r.db.WithContext(ctx).Save(sy).Error
}

func (r *schoolYearRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("school_year_id = ?", id).
		Delete(&model.SchoolYear{}).Error
}

func (r *schoolYearRepo) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.SchoolYear{}).Where("name = ?", name)
	if excludeID != "" {
		db = db.Where("school_year_id <> ?", excludeID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

// ClearActive sets is_active = false on every school year
func (r *schoolYearRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.SchoolYear{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *schoolYearRepo) CountClasses(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Class{}).
		Where("school_year_id = ?", id).
		Count(&n).Error
	return n, err
}

// ────────────────────── holidays ──────────────────────

// HolidayRepository holidays table access
type HolidayRepository interface {
	CreateBatch(ctx context.Context, holidays []model.Holiday) (int64, error)
	ListBySchoolYear(ctx context.Context, schoolYearID string) ([]model.Holiday, error)
	CountBySchoolYear(ctx context.Context, schoolYearID string) (int64, error)
	GetByDate(ctx context.Context, date time.Time) (*model.Holiday, error)
	DeleteBySchoolYear(ctx context.Context, schoolYearID string) error
}

type holidayRepo struct {
	db *gorm.DB
}

func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

// CreateBatch inserts holidays, skipping dates the school year already has.
// It returns the number of rows inserted.
func (r *holidayRepo) CreateBatch(ctx context.Context, holidays []model.Holiday) (int64, error) {
	if len(holidays) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(holidays, 100)
	return res.RowsAffected, res.Error
}

func (r *holidayRepo) ListBySchoolYear(ctx context.Context, schoolYearID string) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.WithContext(ctx).
		Where("school_year_id = ?", schoolYearID).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *holidayRepo) CountBySchoolYear(ctx context.Context, schoolYearID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Holiday{}).
		Where("school_year_id = ?", schoolYearID).
		Count(&n).Error
	return n, err
}

func (r *holidayRepo) GetByDate(ctx context.Context, date time.Time) (*model.Holiday, error) {
	var h model.Holiday
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *holidayRepo) DeleteBySchoolYear(ctx context.Context, schoolYearID string) error {
	return r.db.WithContext(ctx).
		Where("school_year_id = ?", schoolYearID).
		Delete(&model.Holiday{}).Error
}

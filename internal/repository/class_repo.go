package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

// ClassFilter list filters for classes
type ClassFilter struct {
	Search       string
	Grade        string
	SchoolYearID string
	TeacherIDs   []string
	ActiveOnly   bool
	Offset       int
	Limit        int
}

// ClassRepository classes table access
type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	GetByID(ctx context.Context, id string) (*model.Class, error)
	Update(ctx context.Context, class *model.Class) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ClassFilter) ([]model.Class, int64, error)
	Exists(ctx context.Context, grade, section, schoolYearID, excludeID string) (bool, error)
	FindByGradeSection(ctx context.Context, grade, section, schoolYearID string) (*model.Class, error)
	GradeLevels(ctx context.Context) ([]string, error)
	CountStudents(ctx context.Context, classID string) (int64, error)
	StudentCounts(ctx context.Context, classIDs []string) (map[string]int64, error)
	Count(ctx context.Context, schoolYearID string) (int64, error)
}

type classRepo struct {
	db *gorm.DB
}

func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Omit("Teacher", "SchoolYear").Create(class).Error
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("SchoolYear").
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) Update(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Omit("Teacher", "SchoolYear").Save(class).Error
}

func (r *classRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("class_id = ?", id).
		Delete(&model.Class{}).Error
}

func (r *classRepo) List(ctx context.Context, f ClassFilter) ([]model.Class, int64, error) {
	var classes []model.Class
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Class{}).
		Scopes(Search(f.Search, "grade_level", "section"))
	if f.Grade != "" {
		db = db.Where("grade_level = ?", f.Grade)
	}
	if f.SchoolYearID != "" {
		db = db.Where("school_year_id = ?", f.SchoolYearID)
	}
	if len(f.TeacherIDs) > 0 {
		db = db.Where("teacher_id IN ?", f.TeacherIDs)
	}
	if f.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Teacher").
		Preload("SchoolYear").
		Order("grade_level ASC, section ASC").
		Scopes(Paginate(f.Offset, f.Limit)).
		Find(&classes).Error
	return classes, total, err
}

func (r *classRepo) Exists(ctx context.Context, grade, section, schoolYearID, excludeID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Class{}).
		Where("LOWER(grade_level) = LOWER(?) AND LOWER(section) = LOWER(?) AND school_year_id = ?",
			grade, section, schoolYearID)
	if excludeID != "" {
		db = db.Where("class_id <> ?", excludeID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

func (r *classRepo) FindByGradeSection(ctx context.Context, grade, section, schoolYearID string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Where("LOWER(grade_level) = LOWER(?) AND LOWER(section) = LOWER(?) AND school_year_id = ?",
			grade, section, schoolYearID).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) GradeLevels(ctx context.Context) ([]string, error) {
	var grades []string
	err := r.db.WithContext(ctx).Model(&model.Class{}).
		Distinct("grade_level").
		Order("grade_level ASC").
		Pluck("grade_level", &grades).Error
	return grades, err
}

func (r *classRepo) CountStudents(ctx context.Context, classID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("class_id = ?", classID).
		Count(&n).Error
	return n, err
}

func (r *classRepo) StudentCounts(ctx context.Context, classIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(classIDs))
	if len(classIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ClassID string
		N       int64
	}
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Select("class_id, COUNT(*) AS n").
		Where("class_id IN ? AND is_active = ?", classIDs, true).
		Group("class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ClassID] = row.N
	}
	return counts, nil
}

// Count active classes, optionally within one school year.
func (r *classRepo) Count(ctx context.Context, schoolYearID string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Class{}).Where("is_active = ?", true)
	if schoolYearID != "" {
		db = db.Where("school_year_id = ?", schoolYearID)
	}
	err := db.Count(&n).Error
	return n, err
}

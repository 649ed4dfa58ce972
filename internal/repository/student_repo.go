package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

// StudentFilter list filters shared by the students page and export
type StudentFilter struct {
	Search  string
	ClassID string
	Grade   string
	Active  *bool
	Offset  int
	Limit   int
}

// StudentRepository students table access
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByCode(ctx context.Context, code string) (*model.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	List(ctx context.Context, f StudentFilter) ([]model.Student, int64, error)
	StudentIDExists(ctx context.Context, studentID, excludeID string) (bool, error)
	LRNExists(ctx context.Context, lrn, excludeID string) (bool, error)
	Count(ctx context.Context, active *bool) (int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Omit("Class").Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByCode finds a student by the value printed on the badge: student_id or LRN.
func (r *studentRepo) GetByCode(ctx context.Context, code string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("student_id = ? OR lrn = ?", code, code).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Omit("Class").Save(student).Error
}

func (r *studentRepo) List(ctx context.Context, f StudentFilter) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Student{}).
		Scopes(Search(f.Search, "students.student_id", "students.lrn", "students.first_name", "students.last_name"))
	if f.ClassID != "" {
		db = db.Where("students.class_id = ?", f.ClassID)
	}
	if f.Grade != "" {
		db = db.Where("students.class_id IN (?)",
			r.db.Model(&model.Class{}).Select("class_id").Where("grade_level = ?", f.Grade))
	}
	if f.Active != nil {
		db = db.Where("students.is_active = ?", *f.Active)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Class").
		Order("students.last_name ASC, students.first_name ASC").
		Scopes(Paginate(f.Offset, f.Limit)).
		Find(&students).Error
	return students, total, err
}

func (r *studentRepo) StudentIDExists(ctx context.Context, studentID, excludeID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Student{}).Where("student_id = ?", studentID)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

func (r *studentRepo) LRNExists(ctx context.Context, lrn, excludeID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Student{}).Where("lrn = ?", lrn)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

func (r *studentRepo) Count(ctx context.Context, active *bool) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Student{})
	if active != nil {
		db = db.Where("is_active = ?", *active)
	}
	err := db.Count(&n).Error
	return n, err
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository groups every table repository
type Repository struct {
	db *gorm.DB

	User       UserRepository
	SchoolYear SchoolYearRepository
	Holiday    HolidayRepository
	Class      ClassRepository
	Student    StudentRepository
	Attendance AttendanceRepository
	Log        LogRepository
	AuthEvent  AuthEventRepository
	Setting    SystemSettingRepository
}

// NewRepository builds every repository on the same connection
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		SchoolYear: NewSchoolYearRepo(db),
		Holiday:    NewHolidayRepo(db),
		Class:      NewClassRepo(db),
		Student:    NewStudentRepo(db),
		Attendance: NewAttendanceRepo(db),
		Log:        NewLogRepo(db),
		AuthEvent:  NewAuthEventRepo(db),
		Setting:    NewSystemSettingRepo(db),
	}
}

// BeginTx starts a transaction. A Repository assembled without a database
// (unit tests) returns a nil tx, which WithTx treats as "no transaction".
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns repositories bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction runs fn inside BeginTx/WithTx, committing when fn returns nil.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}

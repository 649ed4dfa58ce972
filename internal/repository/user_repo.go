package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

// UserFilter list filters for users and subscriptions
type UserFilter struct {
	Search  string
	Role    string
	Active  *bool
	// Plan is one of the Plan* values, empty for every user.
	Plan   string
	PlanAt time.Time
	Offset int
	Limit  int
}

// subscription plans
const (
	PlanPremium = "premium"
	PlanExpired = "expired"
	PlanFree    = "free"
)

// SubscriptionPlan filters on the subscription in force at now.
// A premium flag without an expiry never lapses.
func SubscriptionPlan(plan string, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch plan {
		case PlanPremium:
			return db.Where("is_premium = ? AND (premium_expires_at IS NULL OR premium_expires_at > ?)", true, now)
		case PlanExpired:
			return db.Where("is_premium = ? AND premium_expires_at <= ?", true, now)
		case PlanFree:
			return db.Where("is_premium = ?", false)
		default:
			return db
		}
	}
}

// UserRepository users table access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, f UserFilter) ([]model.User, int64, error)
	CountByRole(ctx context.Context, role string, activeOnly bool) (int64, error)
	UsernameExists(ctx context.Context, username, excludeID string) (bool, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername matches case-insensitively, as the unique index does.
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) List(ctx context.Context, f UserFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{}).
		Scopes(Search(f.Search, "username", "full_name", "email"))
	if f.Role != "" {
		db = db.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		db = db.Where("is_active = ?", *f.Active)
	}
	db = db.Scopes(SubscriptionPlan(f.Plan, f.PlanAt))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("full_name ASC").
		Scopes(Paginate(f.Offset, f.Limit)).
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) CountByRole(ctx context.Context, role string, activeOnly bool) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Count(&n).Error
	return n, err
}

func (r *userRepo) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(username) = ?", strings.ToLower(username))
	if excludeID != "" {
		db = db.Where("user_id <> ?", excludeID)
	}
	err := db.Count(&n).Error
	return n > 0, err
}

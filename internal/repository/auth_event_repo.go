package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

// DayAuth first login and last logout of a user within a day
type DayAuth struct {
	Login  *time.Time
	Logout *time.Time
}

// AuthEventRepository auth_events table access
type AuthEventRepository interface {
	Create(ctx context.Context, event *model.AuthEvent) error
	DayBounds(ctx context.Context, userIDs []string, from, to time.Time) (map[string]DayAuth, error)
}

type authEventRepo struct {
	db *gorm.DB
}

func NewAuthEventRepo(db *gorm.DB) AuthEventRepository {
	return &authEventRepo{db: db}
}

func (r *authEventRepo) Create(ctx context.Context, event *model.AuthEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// DayBounds aggregates auth events in [from, to) per user.
func (r *authEventRepo) DayBounds(ctx context.Context, userIDs []string, from, to time.Time) (map[string]DayAuth, error) {
	result := make(map[string]DayAuth, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID     string
		FirstLogin *time.Time
		LastLogout *time.Time
	}
	err := r.db.WithContext(ctx).Model(&model.AuthEvent{}).
		Select(`user_id,
			MIN(occurred_at) FILTER (WHERE event = ?) AS first_login,
			MAX(occurred_at) FILTER (WHERE event = ?) AS last_logout`,
			model.AuthEventLogin, model.AuthEventLogout).
		Where("user_id IN ? AND occurred_at >= ? AND occurred_at < ?", userIDs, from, to).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = DayAuth{Login: row.FirstLogin, Logout: row.LastLogout}
	}
	return result, nil
}

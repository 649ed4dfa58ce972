package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// Subscription actions
const (
	SubscriptionGrant  = "grant"
	SubscriptionRevoke = "revoke"
	SubscriptionExtend = "extend"
)

var (
	ErrSubscriptionAction = errors.New("unknown subscription action")
	ErrSubscriptionMonths = errors.New("months must be between 1 and 36 to extend")
	ErrNotPremium         = errors.New("user has no premium subscription with an expiry to extend")
)

// SubscriptionService premium flags on user accounts. There is no payment
// flow; an admin grants and revokes premium by hand.
type SubscriptionService interface {
	List(ctx context.Context, req *dto.SubscriptionListRequest) (*dto.Page[dto.SubscriptionResponse], error)
	// Apply runs grant, revoke or extend. A grant with zero months never expires.
	Apply(ctx context.Context, userID string, form *dto.SubscriptionActionForm, callerID string) (*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewSubscriptionService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{repo: repo, loc: loc, logger: logger, now: time.Now}
}

func (s *subscriptionService) List(ctx context.Context, req *dto.SubscriptionListRequest) (*dto.Page[dto.SubscriptionResponse], error) {
	now := s.now()
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		Search: req.Search,
		Plan:   req.Plan(),
		PlanAt: now,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list subscriptions failed", zap.Error(err))
		return nil, err
	}

	items := make([]dto.SubscriptionResponse, 0, len(users))
	for i := range users {
		items = append(items, s.toResponse(&users[i], now))
	}
	return dto.NewPage(items, &req.PaginationRequest, total), nil
}

func (s *subscriptionService) Apply(ctx context.Context, userID string, form *dto.SubscriptionActionForm, callerID string) (*dto.SubscriptionResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	now := s.now()
	switch form.Action {
	case SubscriptionGrant:
		user.IsPremium = true
		user.PremiumExpiresAt = nil
		if form.Months > 0 {
			exp := now.AddDate(0, form.Months, 0)
			user.PremiumExpiresAt = &exp
		}
	case SubscriptionRevoke:
		user.IsPremium = false
		user.PremiumExpiresAt = nil
	case SubscriptionExtend:
		if form.Months < 1 {
			return nil, ErrSubscriptionMonths
		}
		if !user.IsPremium || user.PremiumExpiresAt == nil {
			return nil, ErrNotPremium
		}
		base := *user.PremiumExpiresAt
		if base.Before(now) {
			base = now
		}
		exp := base.AddDate(0, form.Months, 0)
		user.PremiumExpiresAt = &exp
	default:
		return nil, ErrSubscriptionAction
	}
	user.Touch(callerID)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update subscription failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("subscription changed", logger.Audit(),
		zap.String("user_id", callerID),
		zap.String("target_user_id", userID),
		zap.String("action", form.Action),
		zap.Int("months", form.Months))

	resp := s.toResponse(user, now)
	return &resp, nil
}

func (s *subscriptionService) toResponse(u *model.User, now time.Time) dto.SubscriptionResponse {
	resp := dto.SubscriptionResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsPremium: u.IsPremium,
		Active:    u.PremiumActive(now),
	}
	if u.PremiumExpiresAt != nil {
		resp.ExpiresAt = u.PremiumExpiresAt.In(s.loc).Format(dateLayout)
	}
	return resp
}

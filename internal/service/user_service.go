package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// ── user errors ──

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrPasswordRequired = errors.New("password is required for new accounts")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrRoleInvalid      = errors.New("role is invalid")
	ErrSelfLockout      = errors.New("you cannot remove your own admin role or deactivate yourself")
)

const minPasswordLen = 8

// UserService account administration
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) (*dto.Page[dto.UserResponse], error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	Create(ctx context.Context, form *dto.UserForm, callerID string) (*dto.UserResponse, error)
	Update(ctx context.Context, id string, form *dto.UserForm, callerID string) (*dto.UserResponse, error)
	ResetPassword(ctx context.Context, id, password, callerID string) error
	TeacherOptions(ctx context.Context) ([]dto.UserOption, error)
	// EnsureAdmin creates "admin" with password when no admin account exists.
	EnsureAdmin(ctx context.Context, password string) (bool, error)
}

type userService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewUserService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) UserService {
	return &userService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) (*dto.Page[dto.UserResponse], error) {
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		Search: req.Search,
		Role:   req.Role,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *s.toResponse(&users[i]))
	}
	return dto.NewPage(items, &req.PaginationRequest, total), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(user), nil
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, form *dto.UserForm, callerID string) (*dto.UserResponse, error) {
	verrs := s.validate(ctx, form, "")
	if form.Password == "" {
		verrs.Add(ErrPasswordRequired)
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(form.Password)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     strings.TrimSpace(form.Username),
		FullName:     strings.TrimSpace(form.FullName),
		Email:        strings.TrimSpace(form.Email),
		PasswordHash: hash,
		Role:         form.Role,
		IsActive:     form.IsActive,
	}
	user.Stamp(callerID)

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user account created", logger.Audit(),
		zap.String("user_id", callerID), zap.String("target_user_id", user.UserID), zap.String("role", user.Role))
	return s.toResponse(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, form *dto.UserForm, callerID string) (*dto.UserResponse, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	verrs := s.validate(ctx, form, id)
	if id == callerID && (form.Role != model.RoleAdmin || !form.IsActive) {
		verrs.Add(ErrSelfLockout)
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	user.Username = strings.TrimSpace(form.Username)
	user.FullName = strings.TrimSpace(form.FullName)
	user.Email = strings.TrimSpace(form.Email)
	user.Role = form.Role
	user.IsActive = form.IsActive
	if form.Password != "" {
		hash, err := hashPassword(form.Password)
		if err != nil {
			s.logger.Error("hash password failed", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.Touch(callerID)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user account updated", logger.Audit(),
		zap.String("user_id", callerID), zap.String("target_user_id", id))
	return s.toResponse(user), nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id, password, callerID string) error {
	if len(password) < minPasswordLen {
		return ValidationErrors{ErrPasswordTooShort}
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	user.PasswordHash = hash
	user.Touch(callerID)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("reset password failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("password reset", logger.Audit(),
		zap.String("user_id", callerID), zap.String("target_user_id", id))
	return nil
}

// ────────────────────── TeacherOptions ──────────────────────

func (s *userService) TeacherOptions(ctx context.Context) ([]dto.UserOption, error) {
	active := true
	users, _, err := s.repo.User.List(ctx, repository.UserFilter{Role: model.RoleTeacher, Active: &active})
	if err != nil {
		s.logger.Error("list teachers failed", zap.Error(err))
		return nil, err
	}

	opts := make([]dto.UserOption, 0, len(users))
	for _, u := range users {
		opts = append(opts, dto.UserOption{ID: u.UserID, FullName: u.FullName})
	}
	return opts, nil
}

// ────────────────────── EnsureAdmin ──────────────────────

func (s *userService) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	n, err := s.repo.User.CountByRole(ctx, model.RoleAdmin, false)
	if err != nil {
		return false, err
	}
	if n > 0 || password == "" {
		return false, nil
	}
	if len(password) < minPasswordLen {
		return false, ErrPasswordTooShort
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &model.User{
		Username:     "admin",
		FullName:     "System Administrator",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return false, err
	}

	s.logger.Warn("bootstrap admin account created", zap.String("username", admin.Username))
	return true, nil
}

// ── helpers ──

func (s *userService) get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) validate(ctx context.Context, form *dto.UserForm, excludeID string) ValidationErrors {
	var verrs ValidationErrors
	if !isRole(form.Role) {
		verrs.Add(ErrRoleInvalid)
	}
	if form.Password != "" && len(form.Password) < minPasswordLen {
		verrs.Add(ErrPasswordTooShort)
	}
	taken, err := s.repo.User.UsernameExists(ctx, strings.TrimSpace(form.Username), excludeID)
	if err != nil {
		s.logger.Error("check username failed", zap.Error(err))
	}
	if taken {
		verrs.Add(ErrUsernameTaken)
	}
	return verrs
}

func (s *userService) toResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          u.UserID,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsPremium:   u.PremiumActive(time.Now()),
		LastLoginAt: formatStamp(u.LastLoginAt, s.loc),
		CreatedAt:   formatStamp(&u.CreatedAt, s.loc),
	}
}

func isRole(role string) bool {
	for _, r := range model.AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

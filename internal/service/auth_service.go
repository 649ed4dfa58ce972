package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/jwt"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("this account is disabled")
	ErrScannerRoleDenied  = errors.New("this account may not sign in to the scanner")
)

// scanner accounts
var scannerRoles = map[string]bool{
	model.RoleAdmin:    true,
	model.RoleTeacher:  true,
	model.RoleOperator: true,
}

// AuthService sign-in for the admin pages (session) and the scanner API (JWT).
// Every sign-in and sign-out is stored as an auth event.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, meta dto.ClientMeta) (*dto.SessionUser, error)
	Logout(ctx context.Context, userID string, meta dto.ClientMeta) error
	CurrentUser(ctx context.Context, userID string) (*dto.SessionUser, error)
	APILogin(ctx context.Context, req *dto.LoginRequest, meta dto.ClientMeta) (*dto.TokenResponse, error)
	APILogout(ctx context.Context, claims *jwt.Claims, meta dto.ClientMeta) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenStore
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, meta dto.ClientMeta) (*dto.SessionUser, error) {
	user, err := s.authenticate(ctx, req, meta)
	if err != nil {
		return nil, err
	}

	s.recordSignIn(ctx, user, meta)
	return toSessionUser(user), nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, userID string, meta dto.ClientMeta) error {
	if userID == "" {
		return nil
	}
	s.recordEvent(ctx, userID, model.AuthEventLogout, meta)
	s.logger.Info("user signed out", logger.Audit(),
		zap.String("user_id", userID), zap.String("ip", meta.IP))
	return nil
}

// ────────────────────── CurrentUser ──────────────────────

// CurrentUser reloads the session user so role changes and deactivation
// take effect on the next request.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*dto.SessionUser, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load session user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return toSessionUser(user), nil
}

// ────────────────────── Scanner API ──────────────────────

func (s *authService) APILogin(ctx context.Context, req *dto.LoginRequest, meta dto.ClientMeta) (*dto.TokenResponse, error) {
	user, err := s.authenticate(ctx, req, meta)
	if err != nil {
		return nil, err
	}
	if !scannerRoles[user.Role] {
		return nil, ErrScannerRoleDenied
	}

	token, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}

	s.recordSignIn(ctx, user, meta)

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        *toSessionUser(user),
	}, nil
}

func (s *authService) APILogout(ctx context.Context, claims *jwt.Claims, meta dto.ClientMeta) error {
	if s.tokens != nil && claims.ID != "" {
		if err := s.tokens.BlacklistToken(ctx, claims.ID, claims.RemainingTTL(s.now())); err != nil {
			s.logger.Error("blacklist token failed", zap.Error(err))
			return err
		}
	}
	return s.Logout(ctx, claims.UserID, meta)
}

// IsTokenRevoked is always false without a token store.
func (s *authService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if s.tokens == nil {
		return false, nil
	}
	return s.tokens.IsBlacklisted(ctx, jti)
}

// ── helpers ──

func (s *authService) authenticate(ctx context.Context, req *dto.LoginRequest, meta dto.ClientMeta) (*model.User, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("sign-in with unknown username",
				zap.String("username", req.Username), zap.String("ip", meta.IP))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("sign-in with wrong password",
			zap.String("user_id", user.UserID), zap.String("ip", meta.IP))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *authService) recordSignIn(ctx context.Context, user *model.User, meta dto.ClientMeta) {
	now := s.now()
	user.LastLoginAt = &now
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update last login failed", zap.String("user_id", user.UserID), zap.Error(err))
	}

	s.recordEvent(ctx, user.UserID, model.AuthEventLogin, meta)
	s.logger.Info("user signed in", logger.Audit(),
		zap.String("user_id", user.UserID), zap.String("role", user.Role), zap.String("ip", meta.IP))
}

// recordEvent failures are logged only; a missing event must not block sign-in.
func (s *authService) recordEvent(ctx context.Context, userID, event string, meta dto.ClientMeta) {
	ev := &model.AuthEvent{
		UserID:     userID,
		Event:      event,
		IP:         truncate(meta.IP, 45),
		UserAgent:  truncate(meta.UserAgent, 255),
		OccurredAt: s.now(),
	}
	if err := s.repo.AuthEvent.Create(ctx, ev); err != nil {
		s.logger.Error("record auth event failed",
			zap.String("user_id", userID), zap.String("event", event), zap.Error(err))
	}
}

func toSessionUser(u *model.User) *dto.SessionUser {
	return &dto.SessionUser{
		ID:       u.UserID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

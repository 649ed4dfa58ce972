package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/monitoring"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

var (
	ErrLogDateInvalid   = errors.New("date must be YYYY-MM-DD")
	ErrLogRetentionDays = errors.New("days must be at least 1")
)

// LogService the persisted application log
type LogService interface {
	List(ctx context.Context, req *dto.LogListRequest) (*dto.Page[dto.LogResponse], error)
	// Purge deletes entries older than days and returns how many were removed.
	Purge(ctx context.Context, days int, callerID string) (int64, error)
}

type logService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewLogService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) LogService {
	return &logService{repo: repo, loc: loc, logger: logger, now: time.Now}
}

func (s *logService) List(ctx context.Context, req *dto.LogListRequest) (*dto.Page[dto.LogResponse], error) {
	f := repository.LogFilter{
		Level:  req.Level,
		Search: req.Search,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	}
	if req.Date != "" {
		day, err := parseDay(req.Date, s.now(), s.loc)
		if err != nil {
			return nil, ErrLogDateInvalid
		}
		from, to := monitoring.DayBounds(day, s.loc)
		f.From, f.To = &from, &to
	}

	logs, total, err := s.repo.Log.List(ctx, f)
	if err != nil {
		s.logger.Error("list logs failed", zap.Error(err))
		return nil, err
	}

	items := make([]dto.LogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, s.toResponse(&logs[i]))
	}
	return dto.NewPage(items, &req.PaginationRequest, total), nil
}

func (s *logService) Purge(ctx context.Context, days int, callerID string) (int64, error) {
	if days < 1 {
		return 0, ErrLogRetentionDays
	}

	before := s.now().AddDate(0, 0, -days)
	n, err := s.repo.Log.PurgeBefore(ctx, before)
	if err != nil {
		s.logger.Error("purge logs failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("logs purged", logger.Audit(),
		zap.String("user_id", callerID),
		zap.Int("older_than_days", days),
		zap.Int64("deleted", n))
	return n, nil
}

func (s *logService) toResponse(l *model.Log) dto.LogResponse {
	resp := dto.LogResponse{
		ID:        l.LogID,
		Level:     l.Level,
		Message:   l.Message,
		IP:        deref(l.IP),
		CreatedAt: l.CreatedAt.In(s.loc).Format("2006-01-02 15:04:05"),
	}
	if len(l.Context) > 0 && string(l.Context) != "null" {
		resp.Context = l.Context.String()
	}
	if l.User != nil {
		resp.Username = l.User.Username
	}
	return resp
}

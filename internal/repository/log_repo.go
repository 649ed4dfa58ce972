package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/logger"
)

// LogFilter list filters for the logs page
type LogFilter struct {
	Level  string
	Search string
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// LogRepository logs table access
type LogRepository interface {
	Create(ctx context.Context, log *model.Log) error
	List(ctx context.Context, f LogFilter) ([]model.Log, int64, error)
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

type logRepo struct {
	db *gorm.DB
}

func NewLogRepo(db *gorm.DB) LogRepository {
	return &logRepo{db: db}
}

func (r *logRepo) Create(ctx context.Context, log *model.Log) error {
	return r.db.WithContext(ctx).Omit("User").Create(log).Error
}

func (r *logRepo) List(ctx context.Context, f LogFilter) ([]model.Log, int64, error) {
	var logs []model.Log
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Log{}).
		Scopes(Search(f.Search, "message", "CAST(context AS TEXT)"))
	if f.Level != "" {
		db = db.Where("level = ?", f.Level)
	}
	if f.From != nil {
		db = db.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("created_at < ?", *f.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").
		Order("created_at DESC, log_id DESC").
		Scopes(Paginate(f.Offset, f.Limit)).
		Find(&logs).Error
	return logs, total, err
}

func (r *logRepo) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.Log{})
	return res.RowsAffected, res.Error
}

// ── zap sink ──

// LogSink persists zap entries through a LogRepository.
type LogSink struct {
	repo LogRepository
}

var _ logger.Sink = (*LogSink)(nil)

func NewLogSink(repo LogRepository) *LogSink {
	return &LogSink{repo: repo}
}

func (s *LogSink) WriteLog(ctx context.Context, e *logger.Entry) error {
	row := &model.Log{
		Level:     e.Level,
		Message:   e.Message,
		UserID:    e.UserID,
		IP:        e.IP,
		CreatedAt: e.Time,
	}
	if len(e.Context) > 0 {
		raw, err := json.Marshal(e.Context)
		if err != nil {
			return err
		}
		row.Context = datatypes.JSON(raw)
	}
	return s.repo.Create(ctx, row)
}

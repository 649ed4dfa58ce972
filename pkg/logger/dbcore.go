package logger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	auditKey  = "audit"
	userIDKey = "user_id"
	ipKey     = "ip"

	sinkTimeout = 2 * time.Second
)

// Entry a log record handed to a Sink
type Entry struct {
	Level   string
	Message string
	Context map[string]interface{}
	UserID  *string
	IP      *string
	Time    time.Time
}

// Sink persists log entries (the logs table)
type Sink interface {
	WriteLog(ctx context.Context, e *Entry) error
}

// Audit marks an entry for persistence even below the sink's minimum level.
func Audit() zap.Field {
	return zap.Bool(auditKey, true)
}

// WithSink tees the logger into sink. Entries at or above minLevel are always
// persisted; info entries are persisted only when they carry Audit().
func WithSink(l *zap.Logger, sink Sink, minLevel string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(minLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid db log level %q: %w", minLevel, err)
	}
	core := NewDBCore(sink, lvl)
	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	})), nil
}

// NewDBCore creates a zapcore.Core writing to sink
func NewDBCore(sink Sink, minLevel zapcore.Level) zapcore.Core {
	return &dbCore{sink: sink, minLevel: minLevel}
}

type dbCore struct {
	sink     Sink
	minLevel zapcore.Level
	fields   []zapcore.Field
}

// Enabled admits info so audit entries reach Write; the level gate is applied there.
func (c *dbCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= zapcore.InfoLevel || lvl >= c.minLevel
}

func (c *dbCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &dbCore{sink: c.sink, minLevel: c.minLevel, fields: merged}
}

func (c *dbCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *dbCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	audit, _ := enc.Fields[auditKey].(bool)
	if ent.Level < c.minLevel && !audit {
		return nil
	}
	delete(enc.Fields, auditKey)

	e := &Entry{
		Level:   ent.Level.String(),
		Message: ent.Message,
		Time:    ent.Time,
	}
	if v, ok := enc.Fields[userIDKey].(string); ok && v != "" {
		e.UserID = &v
		delete(enc.Fields, userIDKey)
	}
	if v, ok := enc.Fields[ipKey].(string); ok && v != "" {
		e.IP = &v
		delete(enc.Fields, ipKey)
	}
	if len(enc.Fields) > 0 {
		e.Context = enc.Fields
	}

	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	return c.sink.WriteLog(ctx, e)
}

func (c *dbCore) Sync() error { return nil }

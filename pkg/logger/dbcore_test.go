package logger

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type memSink struct {
	entries []*Entry
	err     error
}

func (s *memSink) WriteLog(_ context.Context, e *Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func TestDBCore_LevelGate(t *testing.T) {
	sink := &memSink{}
	l := zap.New(NewDBCore(sink, zapcore.WarnLevel))

	l.Debug("debug entry")
	l.Info("info entry")
	l.Warn("warn entry")
	l.Error("error entry", zap.Error(errors.New("boom")))

	if len(sink.entries) != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", len(sink.entries))
	}
	if sink.entries[0].Level != "warn" || sink.entries[1].Level != "error" {
		t.Errorf("unexpected levels: %s, %s", sink.entries[0].Level, sink.entries[1].Level)
	}
	if sink.entries[1].Context["error"] != "boom" {
		t.Errorf("expected error field in context, got %v", sink.entries[1].Context)
	}
}

func TestDBCore_AuditBelowLevel(t *testing.T) {
	sink := &memSink{}
	l := zap.New(NewDBCore(sink, zapcore.WarnLevel))

	l.Info("student created", Audit(),
		zap.String("user_id", "u-1"),
		zap.String("ip", "10.0.0.5"),
		zap.String("student_id", "S-100"),
	)

	if len(sink.entries) != 1 {
		t.Fatalf("expected audit entry to be persisted, got %d", len(sink.entries))
	}
	e := sink.entries[0]
	if e.UserID == nil || *e.UserID != "u-1" {
		t.Errorf("expected user_id u-1, got %v", e.UserID)
	}
	if e.IP == nil || *e.IP != "10.0.0.5" {
		t.Errorf("expected ip 10.0.0.5, got %v", e.IP)
	}
	if _, ok := e.Context["audit"]; ok {
		t.Error("audit marker should not be persisted in context")
	}
	if e.Context["student_id"] != "S-100" {
		t.Errorf("expected student_id in context, got %v", e.Context)
	}
}

func TestDBCore_WithFields(t *testing.T) {
	sink := &memSink{}
	l := zap.New(NewDBCore(sink, zapcore.WarnLevel)).With(zap.String("module", "scanner"))

	l.Warn("duplicate scan")

	if len(sink.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sink.entries))
	}
	if sink.entries[0].Context["module"] != "scanner" {
		t.Errorf("expected logger fields in context, got %v", sink.entries[0].Context)
	}
}

func TestWithSink_InvalidLevel(t *testing.T) {
	if _, err := WithSink(zap.NewNop(), &memSink{}, "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

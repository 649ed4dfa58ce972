package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BelowZeroPortfolio/school-scan-sub001/config"
)

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school-scan.log")

	l, err := NewLogger(&config.LogConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Debug("below the level")
	l.Info("attendance recorded")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"msg":"attendance recorded"`) {
		t.Errorf("missing entry: %s", out)
	}
	if !strings.Contains(out, `"service":"school-scan"`) {
		t.Errorf("missing service field: %s", out)
	}
	if strings.Contains(out, "below the level") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BelowZeroPortfolio/school-scan-sub001/config"
)

// serviceName tags every line so a shared log collector can tell schools' servers apart
const serviceName = "school-scan"

// NewLogger builds the zap logger from configuration.
// Output adds a file next to stderr for school servers without a log collector.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]interface{}{"service": serviceName}

	if cfg.Output != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.Output)
		zapCfg.ErrorOutputPaths = append(zapCfg.ErrorOutputPaths, cfg.Output)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

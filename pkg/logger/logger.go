// Package logger builds the zap logger shared by the server and its workers.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appConfig "github.com/festy23/collabase/internal/config"
)

// New builds a logger from LOG_* environment variables.
func New() (*zap.SugaredLogger, error) {
	return NewWithConfig(appConfig.LoadLoggerConfigFromEnv())
}

// NewWithConfig builds a logger from cfg. An unknown level falls back to info.
func NewWithConfig(cfg appConfig.LoggerConfig) (*zap.SugaredLogger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zapConfig.Encoding = "json"
	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig.OutputPaths = []string{outputPath(cfg.Output)}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	if cfg.Service != "" {
		zapConfig.InitialFields = map[string]interface{}{"service": cfg.Service}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// outputPath maps LOG_OUTPUT to a zap sink. Anything that is not stdout, stderr
// or a file path (containing a separator) falls back to stdout.
func outputPath(output string) string {
	switch {
	case output == "stdout" || output == "stderr":
		return output
	case strings.ContainsAny(output, `/\`):
		return output
	default:
		return "stdout"
	}
}

// Package logging builds the diagnostic logger shared by every component.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ShayCichocki/council/internal/config"
)

// New builds a zap logger from the log section of the configuration.
// Output goes to cfg.File when set and to stderr otherwise. Console output
// is colored only when it lands on a terminal.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	output := "stderr"
	if cfg.File != "" {
		output = cfg.File
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := strings.ToLower(cfg.Format)
	switch encoding {
	case "console", "":
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if cfg.File == "" && isatty.IsTerminal(os.Stderr.Fd()) {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	case "json":
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("log format %q: must be console or json", cfg.Format)
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

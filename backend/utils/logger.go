package utils

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerConfig configures InitLogger.
type LoggerConfig struct {
	// Format is "text" or "json"
	Format string
	// Level is a charm log level name; unknown names mean info
	Level string
	// Output defaults to os.Stderr
	Output io.Writer
	// Prefix is printed before every message in text mode
	Prefix string
}

// InitLogger builds the process logger.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(cfg.Output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Prefix:          cfg.Prefix,
	})
	if cfg.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

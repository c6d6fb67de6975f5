package logger

import (
	"github.com/ryan-gang/screen-watcher/internal/config"
)

// LoggerInterface defines the interface for logging
type LoggerInterface interface {
	Info(v ...any)
	Infof(format string, v ...any)
	Warn(v ...any)
	Warnf(format string, v ...any)
	Error(v ...any)
	Errorf(format string, v ...any)
	Debug(v ...any)
	Debugf(format string, v ...any)
	With(key, value string) LoggerInterface
	Close() error
}

// NewLogger creates a logger writing to stdout and, when configured, the log file
func NewLogger(cfg *config.Config) (LoggerInterface, error) {
	logger := &Logger{}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	return logger, nil
}

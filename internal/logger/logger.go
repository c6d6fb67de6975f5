package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with the printf-style API used across the app.
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// Init sets up console output and, if logPath is not empty, an appended log file.
func (l *Logger) Init(level, logPath string) error {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}

	var out io.Writer = console
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		out = zerolog.MultiLevelWriter(console, file)
	}

	l.zl = newZerolog(out, level)
	return nil
}

// New returns a logger that writes JSON lines to w. Used by tests and
// anything that wants log output captured.
func New(w io.Writer, level string) *Logger {
	return &Logger{zl: newZerolog(w, level)}
}

func newZerolog(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// With returns a child logger carrying an extra field.
func (l *Logger) With(key, value string) LoggerInterface {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Close closes the log file. Child loggers share it and must not be closed.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) Info(v ...any) {
	l.zl.Info().Msg(fmt.Sprint(v...))
}

func (l *Logger) Infof(format string, v ...any) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(v ...any) {
	l.zl.Warn().Msg(fmt.Sprint(v...))
}

func (l *Logger) Warnf(format string, v ...any) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(v ...any) {
	l.zl.Error().Msg(fmt.Sprint(v...))
}

func (l *Logger) Errorf(format string, v ...any) {
	l.zl.Error().Msgf(format, v...)
}

func (l *Logger) Debug(v ...any) {
	l.zl.Debug().Msg(fmt.Sprint(v...))
}

func (l *Logger) Debugf(format string, v ...any) {
	l.zl.Debug().Msgf(format, v...)
}

var _ LoggerInterface = (*Logger)(nil)

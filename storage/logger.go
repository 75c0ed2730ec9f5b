package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SlogLogger adapts a slog.Logger to badger.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger.With("component", "badger")}
}

func (l *SlogLogger) log(level slog.Level, format string, args ...interface{}) {
	if !l.logger.Enabled(context.Background(), level) {
		return
	}
	l.logger.Log(context.Background(), level, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (l *SlogLogger) Errorf(format string, args ...interface{}) {
	l.log(slog.LevelError, format, args...)
}

func (l *SlogLogger) Warningf(format string, args ...interface{}) {
	l.log(slog.LevelWarn, format, args...)
}

func (l *SlogLogger) Infof(format string, args ...interface{}) {
	l.log(slog.LevelInfo, format, args...)
}

func (l *SlogLogger) Debugf(format string, args ...interface{}) {
	l.log(slog.LevelDebug, format, args...)
}

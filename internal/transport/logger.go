package transport

import (
	"fmt"
	"log/slog"
	"strings"
)

// restyLogger forwards resty's printf-style logging to slog.
type restyLogger struct {
	logger *slog.Logger
}

func newRestyLogger(logger *slog.Logger) *restyLogger {
	return &restyLogger{logger: logger.With("component", "transport")}
}

func (l *restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(message(format, v...))
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(message(format, v...))
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(message(format, v...))
}

func message(format string, v ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}

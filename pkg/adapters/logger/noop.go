package logger

import "github.com/user/framegrab/pkg/ports"

// NoopLogger drops every message. The CLI installs it for --quiet so that
// stderr stays empty while the metadata report still goes to stdout.
type NoopLogger struct{}

// NewNoop returns a NoopLogger.
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...interface{}) {}

func (l *NoopLogger) Info(msg string, args ...interface{}) {}

func (l *NoopLogger) Warn(msg string, args ...interface{}) {}

func (l *NoopLogger) Error(msg string, args ...interface{}) {}

// WithComponent returns l; stage loggers are silenced too.
func (l *NoopLogger) WithComponent(component string) ports.Logger {
	return l
}

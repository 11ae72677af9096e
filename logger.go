package docstore

import (
	"fmt"
	"log"
)

// Logger provides structured logging for store operations.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

func (l *NoOpLogger) Debug(msg string, fields ...any) {}
func (l *NoOpLogger) Info(msg string, fields ...any)  {}
func (l *NoOpLogger) Warn(msg string, fields ...any)  {}
func (l *NoOpLogger) Error(msg string, fields ...any) {}

// StdLogger writes through the standard library log package.
// A simple implementation for development; production code should use
// the zap adapter.
type StdLogger struct {
	prefix string
}

func NewStdLogger(prefix string) *StdLogger {
	return &StdLogger{prefix: prefix}
}

func (l *StdLogger) Debug(msg string, fields ...any) { l.write("DEBUG", msg, fields...) }
func (l *StdLogger) Info(msg string, fields ...any)  { l.write("INFO", msg, fields...) }
func (l *StdLogger) Warn(msg string, fields ...any)  { l.write("WARN", msg, fields...) }
func (l *StdLogger) Error(msg string, fields ...any) { l.write("ERROR", msg, fields...) }

func (l *StdLogger) write(level, msg string, fields ...any) {
	out := l.prefix + " [" + level + "] " + msg
	for i := 0; i+1 < len(fields); i += 2 {
		out += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	log.Print(out)
}

package offerskit

import (
	"github.com/rs/zerolog"
)

// Logger is the minimal structured logging surface the SDK writes to.
// Key/value pairs alternate, zap/zerolog style. The SDK stays silent unless a
// logger is supplied.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}

// ZerologLogger adapts a zerolog.Logger to the SDK's Logger interface.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps the given zerolog logger.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// Debug implements Logger.
func (z *ZerologLogger) Debug(msg string, keysAndValues ...any) {
	emit(z.l.Debug(), msg, keysAndValues)
}

// Info implements Logger.
func (z *ZerologLogger) Info(msg string, keysAndValues ...any) {
	emit(z.l.Info(), msg, keysAndValues)
}

// Warn implements Logger.
func (z *ZerologLogger) Warn(msg string, keysAndValues ...any) {
	emit(z.l.Warn(), msg, keysAndValues)
}

// Error implements Logger.
func (z *ZerologLogger) Error(msg string, keysAndValues ...any) {
	emit(z.l.Error(), msg, keysAndValues)
}

func emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}

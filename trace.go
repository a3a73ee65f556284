package jsoncore

import "go.uber.org/zap"

// TraceLogger wraps a *zap.Logger so every call site can stay
// nil-safe: a nil *TraceLogger (the default) makes every method a
// no-op, so tracing costs nothing when Options.Trace is unset.
type TraceLogger struct {
	log *zap.Logger
}

// NewTraceLogger wraps an existing zap logger for use as Options.Trace.
func NewTraceLogger(log *zap.Logger) *TraceLogger {
	return &TraceLogger{log: log}
}

func (t *TraceLogger) debugf(format string, args ...any) {
	if t == nil || t.log == nil {
		return
	}
	t.log.Sugar().Debugf(format, args...)
}

package telemetry

import "log"

// Logger receives operational text: listener state, websocket failures, slow
// ticks. Navigation events go through logging.Publisher instead.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts a printf-style function. A nil LoggerFunc discards.
type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Printf(format string, args ...any) {
	if f != nil {
		f(format, args...)
	}
}

// WrapLogger adapts a standard library logger. A nil logger discards.
func WrapLogger(logger *log.Logger) Logger {
	if logger == nil {
		return LoggerFunc(nil)
	}
	return LoggerFunc(logger.Printf)
}

// WithPrefix tags every line written through l, e.g. "[loop] ".
func WithPrefix(l Logger, prefix string) Logger {
	if l == nil {
		return LoggerFunc(nil)
	}
	return LoggerFunc(func(format string, args ...any) {
		l.Printf(prefix+format, args...)
	})
}

// Metrics is the counter surface the controller, loop and sockets write to.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

type nopMetrics struct{}

func (nopMetrics) Add(string, uint64)   {}
func (nopMetrics) Store(string, uint64) {}

// NopMetrics discards every update.
func NopMetrics() Metrics {
	return nopMetrics{}
}

package ctxvars

import "time"

// GuardLogEvent describes one guard lifecycle transition for logging.
type GuardLogEvent struct {
	Op       string
	GuardID  string
	Vars     []string
	Duration time.Duration
	Err      error
}

// GuardLogger records guard transitions.
type GuardLogger interface {
	LogTransition(GuardLogEvent)
}

// GuardLoggerFunc adapts a function to GuardLogger.
type GuardLoggerFunc func(GuardLogEvent)

// LogTransition implements GuardLogger.
func (f GuardLoggerFunc) LogTransition(event GuardLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopGuardLogger struct{}

func (noopGuardLogger) LogTransition(GuardLogEvent) {}

// WithGuardLogger attaches a lifecycle logger to the guard.
func WithGuardLogger(logger GuardLogger) GuardOption {
	return func(cfg *guardConfig) {
		if logger == nil {
			cfg.logger = noopGuardLogger{}
			return
		}
		cfg.logger = logger
	}
}

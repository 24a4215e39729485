package ctxvars

import "github.com/goliatone/go-ctxvars/pkg/activity"

// WithActivityHooks attaches activity hooks notified after the apply and
// restore phases complete. Hooks are cloned and nil entries dropped to
// preserve immutability.
func WithActivityHooks(hooks activity.Hooks) GuardOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *guardConfig) {
		cfg.hooks = normalized
		cfg.activityEmitter = nil
	}
}

// WithActivityChannel overrides the default channel stamped on emitted
// events.
func WithActivityChannel(channel string) GuardOption {
	return func(cfg *guardConfig) {
		cfg.activityChannel = channel
		cfg.activityEmitter = nil
	}
}

// ActivityHooks returns a cloned slice of the activity hooks configured on
// the guard. The returned slice can be safely mutated by the caller.
func (g *Guard) ActivityHooks() activity.Hooks {
	if g == nil {
		return nil
	}
	return cloneActivityHooks(g.cfg.hooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

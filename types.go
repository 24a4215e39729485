package ctxvars

import (
	"time"

	"github.com/goliatone/go-ctxvars/pkg/activity"
)

// EvalContext carries the inputs available to an expression-derived
// assignment when the guard applies it.
type EvalContext struct {
	// Bindings maps source variable names to their current values.
	Bindings map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	// Var names the target variable, used for error and log labels.
	Var string
}

func (ctx EvalContext) withDefaults() EvalContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) withDefaultMaps() EvalContext {
	if ctx.Bindings == nil {
		ctx.Bindings = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) varLabel() string {
	if ctx.Var != "" {
		return ctx.Var
	}
	return "unknown"
}

// Evaluator executes expressions against an evaluation context.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// GuardOption configures guard behaviour. Options attach via Guard.Configure
// before the apply phase.
type GuardOption func(*guardConfig)

type guardConfig struct {
	logger          GuardLogger
	hooks           activity.Hooks
	activityChannel string
	activityEmitter *activity.Emitter
	captureTrace    bool
}

func (c *guardConfig) guardLogger() GuardLogger {
	if c.logger != nil {
		return c.logger
	}
	return noopGuardLogger{}
}

func (c *guardConfig) emitter() *activity.Emitter {
	if c.activityEmitter == nil {
		c.activityEmitter = activity.NewEmitter(c.hooks, activity.Config{
			Enabled: len(c.hooks) > 0,
			Channel: c.activityChannel,
		})
	}
	return c.activityEmitter
}

package ctxvars

import (
	"fmt"
	"time"

	"github.com/goliatone/go-ctxvars/internal/coerce"
)

// Assignment pairs a variable with the value applied when a guard activates.
// Build one with Assign, AssignExpr, or NamedVar.BindAny.
type Assignment interface {
	// Var names the target variable.
	Var() string
	apply(cfg *guardConfig) (restorer, error)
}

// restorer owns one token produced during the apply phase.
type restorer interface {
	reset() error
	varName() string
	tokenID() string
}

type valueAssignment[T any] struct {
	target *Var[T]
	value  T
}

// Assign pairs v with a literal value. The value is deep copied at
// construction so the captured pair stays immutable.
func Assign[T any](v *Var[T], value T) Assignment {
	return valueAssignment[T]{target: v, value: Clone(value)}
}

func (a valueAssignment[T]) Var() string {
	return a.target.Name()
}

func (a valueAssignment[T]) apply(*guardConfig) (restorer, error) {
	return tokenRestorer[T]{target: a.target, token: a.target.Set(a.value)}, nil
}

type tokenRestorer[T any] struct {
	target *Var[T]
	token  *Token[T]
}

func (r tokenRestorer[T]) reset() error {
	return r.target.Reset(r.token)
}

func (r tokenRestorer[T]) varName() string {
	return r.target.Name()
}

func (r tokenRestorer[T]) tokenID() string {
	return r.token.ID()
}

// EvalAssignOption configures an expression-derived assignment.
type EvalAssignOption func(*evalAssignConfig)

type evalAssignConfig struct {
	evaluator Evaluator
	sources   []NamedVar
	args      map[string]any
	metadata  map[string]any
	logger    EvaluatorLogger
	cache     ProgramCache
	functions *FunctionRegistry
}

// WithEvalEvaluator overrides the default expr evaluator for one assignment.
func WithEvalEvaluator(e Evaluator) EvalAssignOption {
	return func(cfg *evalAssignConfig) {
		cfg.evaluator = e
	}
}

// WithEvalSources lists the variables whose current values are visible to the
// expression, keyed by variable name.
func WithEvalSources(vars ...NamedVar) EvalAssignOption {
	return func(cfg *evalAssignConfig) {
		cfg.sources = append(cfg.sources, vars...)
	}
}

// WithEvalArgs supplies the args map exposed to the expression.
func WithEvalArgs(args map[string]any) EvalAssignOption {
	return func(cfg *evalAssignConfig) {
		cfg.args = args
	}
}

// WithEvalMetadata supplies the metadata map exposed to the expression.
func WithEvalMetadata(metadata map[string]any) EvalAssignOption {
	return func(cfg *evalAssignConfig) {
		cfg.metadata = metadata
	}
}

// WithEvalLogger attaches an evaluator logger to the assignment.
func WithEvalLogger(logger EvaluatorLogger) EvalAssignOption {
	return func(cfg *evalAssignConfig) {
		cfg.logger = logger
	}
}

// WithEvalProgramCache wires a compiled-program cache into the default
// evaluator.
func WithEvalProgramCache(cache ProgramCache) EvalAssignOption {
	return func(cfg *evalAssignConfig) {
		cfg.cache = cache
	}
}

// WithEvalFunctions wires a function registry into the default evaluator.
func WithEvalFunctions(registry *FunctionRegistry) EvalAssignOption {
	return func(cfg *evalAssignConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

type exprAssignment[T any] struct {
	target     *Var[T]
	expression string
	cfg        evalAssignConfig
}

// AssignExpr pairs v with an expression evaluated when the guard applies,
// against a snapshot of the current values of the configured source
// variables. Evaluation or coercion failure is an apply-phase failure: pairs
// applied earlier stay applied and the guard's block is never entered.
func AssignExpr[T any](v *Var[T], expression string, opts ...EvalAssignOption) Assignment {
	cfg := evalAssignConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return exprAssignment[T]{target: v, expression: expression, cfg: cfg}
}

func (a exprAssignment[T]) Var() string {
	return a.target.Name()
}

func (a exprAssignment[T]) apply(*guardConfig) (restorer, error) {
	evaluator := a.cfg.resolveEvaluator()
	ctx := EvalContext{
		Bindings: Bindings(a.cfg.sources...),
		Args:     a.cfg.args,
		Metadata: a.cfg.metadata,
		Var:      a.target.Name(),
	}.withDefaults()

	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, a.expression)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, a.expression, ctx.varLabel(), evalErr)
	a.cfg.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     a.expression,
		Var:      ctx.varLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}

	typed, ok := result.(T)
	if !ok {
		coerced, err := coerce.To[T](result)
		if err != nil {
			return nil, fmt.Errorf("ctxvars: assign %q from expression: %w", a.target.Name(), err)
		}
		typed = coerced
	}
	return tokenRestorer[T]{target: a.target, token: a.target.Set(typed)}, nil
}

func (c evalAssignConfig) resolveEvaluator() Evaluator {
	if c.evaluator != nil {
		return c.evaluator
	}
	var exprOpts []ExprEvaluatorOption
	if c.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(c.cache))
	}
	if c.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(c.functions))
	}
	return NewExprEvaluator(exprOpts...)
}

func (c evalAssignConfig) evaluatorLogger() EvaluatorLogger {
	if c.logger != nil {
		return c.logger
	}
	return noopEvaluatorLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*ctxvars.exprEvaluator":
		return "expr"
	case "*ctxvars.celEvaluator":
		return "cel"
	case "*ctxvars.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

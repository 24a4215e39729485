package ctxvars

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Var is a context-local variable: a named slot whose outstanding assignments
// follow stack discipline. Set pushes a binding and mints a single-use Token;
// Reset pops the binding captured by that token. The zero value is unusable,
// construct with NewVar.
type Var[T any] struct {
	name string
	def  *T

	mu    sync.Mutex
	stack []*Token[T]
}

// VarOption configures variable construction.
type VarOption[T any] func(*varConfig[T])

type varConfig[T any] struct {
	def *T
}

// WithDefault supplies the value Get returns when no assignment is in effect.
// The default is deep copied so the variable stays detached from the caller's
// reference.
func WithDefault[T any](value T) VarOption[T] {
	return func(cfg *varConfig[T]) {
		cloned := Clone(value)
		cfg.def = &cloned
	}
}

// NewVar constructs a named context-local variable with no outstanding
// assignment.
func NewVar[T any](name string, opts ...VarOption[T]) *Var[T] {
	cfg := varConfig[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Var[T]{name: name, def: cfg.def}
}

// Name returns the identifier the variable was constructed with.
func (v *Var[T]) Name() string {
	return v.name
}

// Get returns the value of the most recent outstanding assignment, falling
// back to the configured default. Without either it returns ErrUnset wrapped
// with the variable name.
func (v *Var[T]) Get() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n := len(v.stack); n > 0 {
		return v.stack[n-1].value, nil
	}
	if v.def != nil {
		return *v.def, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrUnset, v.name)
}

// Value is Get without the error, returning the zero value when unset.
func (v *Var[T]) Value() T {
	value, err := v.Get()
	if err != nil {
		var zero T
		return zero
	}
	return value
}

// Set pushes value as the variable's current binding and returns the token
// that undoes it. Tokens are consumed exactly once, by Reset, in reverse
// order of issuance.
func (v *Var[T]) Set(value T) *Token[T] {
	token := &Token[T]{
		id:    uuid.New().String(),
		owner: v,
		value: value,
	}
	v.mu.Lock()
	v.stack = append(v.stack, token)
	v.mu.Unlock()
	return token
}

// Reset pops the binding captured by token, restoring whatever was observable
// before the matching Set, including the unset state. It fails with
// ErrTokenForeign when token was minted by another variable, ErrTokenReused
// when token was already consumed, and ErrResetOrder when token is not the
// most recent outstanding assignment.
func (v *Var[T]) Reset(token *Token[T]) error {
	if token == nil || token.owner == nil {
		return fmt.Errorf("%w: %s", ErrTokenForeign, v.name)
	}
	if token.owner != v {
		return fmt.Errorf("%w: token for %q used on %q", ErrTokenForeign, token.owner.name, v.name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if token.used {
		return fmt.Errorf("%w: %s", ErrTokenReused, v.name)
	}
	n := len(v.stack)
	if n == 0 || v.stack[n-1] != token {
		return fmt.Errorf("%w: %s", ErrResetOrder, v.name)
	}
	token.used = true
	v.stack[n-1] = nil
	v.stack = v.stack[:n-1]
	return nil
}

// Token captures the state needed to undo one assignment to a Var.
type Token[T any] struct {
	id    string
	owner *Var[T]
	value T
	used  bool
}

// ID returns the token identifier surfaced in traces and activity metadata.
func (t *Token[T]) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// Var returns the name of the variable that minted the token.
func (t *Token[T]) Var() string {
	if t == nil || t.owner == nil {
		return ""
	}
	return t.owner.name
}

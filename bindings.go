package ctxvars

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-ctxvars/internal/coerce"
)

// NamedVar is the type-erased view of a Var used by snapshot helpers and
// expression-derived assignments.
type NamedVar interface {
	Name() string
	// CurrentValue reports the variable's observable value, false when unset.
	CurrentValue() (any, bool)
	// BindAny builds an Assignment from an untyped value, coercing it into
	// the variable's value type.
	BindAny(value any) (Assignment, error)
}

// CurrentValue implements NamedVar.
func (v *Var[T]) CurrentValue() (any, bool) {
	value, err := v.Get()
	if err != nil {
		return nil, false
	}
	return value, true
}

// BindAny implements NamedVar. The value is coerced into T, so payloads that
// went through JSON (snapshot stores, evaluator results) bind cleanly.
func (v *Var[T]) BindAny(value any) (Assignment, error) {
	typed, err := coerce.To[T](value)
	if err != nil {
		return nil, fmt.Errorf("ctxvars: bind %q: %w", v.name, err)
	}
	return Assign(v, typed), nil
}

// Bindings snapshots the current values of vars keyed by variable name.
// Unset variables are omitted; values are deep copied.
func Bindings(vars ...NamedVar) map[string]any {
	out := make(map[string]any, len(vars))
	for _, v := range vars {
		if v == nil {
			continue
		}
		if value, ok := v.CurrentValue(); ok {
			out[v.Name()] = Clone(value)
		}
	}
	return out
}

// FromBindings builds an unapplied guard that assigns every entry of
// bindings onto the matching variable from vars, in variable-name order.
// A binding with no matching variable is an error.
func FromBindings(bindings map[string]any, vars ...NamedVar) (*Guard, error) {
	index := make(map[string]NamedVar, len(vars))
	for _, v := range vars {
		if v != nil {
			index[v.Name()] = v
		}
	}

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := make([]Assignment, 0, len(names))
	for _, name := range names {
		v, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("ctxvars: no variable supplied for binding %q", name)
		}
		assignment, err := v.BindAny(bindings[name])
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return New(assignments...), nil
}

package ctxvars

import (
	"errors"
	"testing"
)

func TestVarGetUnset(t *testing.T) {
	v := NewVar[string]("greeting")

	if _, err := v.Get(); !errors.Is(err, ErrUnset) {
		t.Fatalf("expected ErrUnset, got %v", err)
	}
	if got := v.Value(); got != "" {
		t.Fatalf("expected zero value for unset var, got %q", got)
	}
}

func TestVarDefaultIsDetached(t *testing.T) {
	labels := map[string]string{"env": "prod"}
	v := NewVar("labels", WithDefault(labels))

	labels["env"] = "mutated"

	got, err := v.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["env"] != "prod" {
		t.Fatalf("expected default copy to remain 'prod', got %q", got["env"])
	}
}

func TestVarSetGetReset(t *testing.T) {
	v := NewVar[string]("greeting")

	token := v.Set("hello")
	if got := v.Value(); got != "hello" {
		t.Fatalf("expected 'hello', got %q", got)
	}
	if token.Var() != "greeting" || token.ID() == "" {
		t.Fatalf("unexpected token metadata: var=%q id=%q", token.Var(), token.ID())
	}

	if err := v.Reset(token); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := v.Get(); !errors.Is(err, ErrUnset) {
		t.Fatalf("expected var to be unset after reset, got %v", err)
	}
}

func TestVarResetRestoresPriorBinding(t *testing.T) {
	v := NewVar[int]("count")

	first := v.Set(1)
	second := v.Set(2)

	if got := v.Value(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if err := v.Reset(second); err != nil {
		t.Fatalf("reset second: %v", err)
	}
	if got := v.Value(); got != 1 {
		t.Fatalf("expected 1 after popping the top binding, got %d", got)
	}
	if err := v.Reset(first); err != nil {
		t.Fatalf("reset first: %v", err)
	}
}

func TestVarResetTokenReuse(t *testing.T) {
	v := NewVar[string]("greeting")
	token := v.Set("hello")

	if err := v.Reset(token); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := v.Reset(token); !errors.Is(err, ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused, got %v", err)
	}
}

func TestVarResetOutOfOrder(t *testing.T) {
	v := NewVar[string]("greeting")
	first := v.Set("one")
	second := v.Set("two")

	if err := v.Reset(first); !errors.Is(err, ErrResetOrder) {
		t.Fatalf("expected ErrResetOrder, got %v", err)
	}
	// The stack is untouched by the failed reset.
	if got := v.Value(); got != "two" {
		t.Fatalf("expected 'two' after failed reset, got %q", got)
	}
	if err := v.Reset(second); err != nil {
		t.Fatalf("reset second: %v", err)
	}
	if err := v.Reset(first); err != nil {
		t.Fatalf("reset first: %v", err)
	}
}

func TestVarResetForeignToken(t *testing.T) {
	a := NewVar[string]("a")
	b := NewVar[string]("b")
	token := a.Set("value")

	if err := b.Reset(token); !errors.Is(err, ErrTokenForeign) {
		t.Fatalf("expected ErrTokenForeign, got %v", err)
	}
	if err := b.Reset(nil); !errors.Is(err, ErrTokenForeign) {
		t.Fatalf("expected ErrTokenForeign for nil token, got %v", err)
	}
	if err := a.Reset(token); err != nil {
		t.Fatalf("reset on owner: %v", err)
	}
}

func TestVarCurrentValue(t *testing.T) {
	v := NewVar[string]("greeting")

	if _, ok := v.CurrentValue(); ok {
		t.Fatalf("expected no current value for unset var")
	}

	token := v.Set("hello")
	value, ok := v.CurrentValue()
	if !ok || value != "hello" {
		t.Fatalf("expected ('hello', true), got (%v, %v)", value, ok)
	}
	if err := v.Reset(token); err != nil {
		t.Fatalf("reset: %v", err)
	}

	withDefault := NewVar("audience", WithDefault("world"))
	value, ok = withDefault.CurrentValue()
	if !ok || value != "world" {
		t.Fatalf("expected default to be observable, got (%v, %v)", value, ok)
	}
}

func TestVarBindAnyCoerces(t *testing.T) {
	v := NewVar[int]("count")

	assignment, err := v.BindAny(float64(42))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if assignment.Var() != "count" {
		t.Fatalf("expected assignment for 'count', got %q", assignment.Var())
	}

	if err := New(assignment).Do(func() error {
		if got := v.Value(); got != 42 {
			t.Fatalf("expected coerced 42, got %d", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("do: %v", err)
	}

	if _, err := v.BindAny("not a number"); err == nil {
		t.Fatalf("expected coercion failure for string into int")
	}
}

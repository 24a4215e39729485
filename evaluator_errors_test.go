package ctxvars

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEvaluationErrorFormatting(t *testing.T) {
	base := errors.New("division by zero")
	err := &EvaluationError{
		Engine: "expr",
		Expr:   "1 / 0",
		Var:    "ratio",
		Err:    base,
	}

	msg := err.Error()
	for _, want := range []string{"ctxvars:", "expr evaluator", `expr="1 / 0"`, "var=ratio", "division by zero"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected Unwrap to reach the base error")
	}

	empty := &EvaluationError{Engine: "cel", Err: base}
	if !strings.Contains(empty.Error(), "expr=<empty>") {
		t.Fatalf("expected empty expression marker, got %q", empty.Error())
	}
}

func TestWrapEvaluationError(t *testing.T) {
	if wrapEvaluationError("expr", "a + b", "sum", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	base := errors.New("undefined variable")
	wrapped := wrapEvaluationError("expr", "a + b", "sum", base)
	var evalErr *EvaluationError
	if !errors.As(wrapped, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", wrapped)
	}
	if evalErr.Engine != "expr" || evalErr.Expr != "a + b" || evalErr.Var != "sum" {
		t.Fatalf("unexpected metadata: %+v", evalErr)
	}

	// Wrapping an existing EvaluationError fills blanks without replacing
	// fields that already carry data.
	partial := &EvaluationError{Engine: "cel", Err: base}
	rewrapped := wrapEvaluationError("expr", "a + b", "sum", partial)
	if !errors.As(rewrapped, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", rewrapped)
	}
	if evalErr.Engine != "cel" {
		t.Fatalf("expected existing engine preserved, got %q", evalErr.Engine)
	}
	if evalErr.Expr != "a + b" || evalErr.Var != "sum" {
		t.Fatalf("expected blanks filled: %+v", evalErr)
	}
}

func TestWrapEvaluatorError(t *testing.T) {
	if wrapEvaluatorError("expr", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	prefixed := fmt.Errorf("ctxvars: already wrapped")
	if got := wrapEvaluatorError("expr", prefixed); got != prefixed {
		t.Fatalf("expected prefixed error passthrough, got %v", got)
	}

	evalErr := &EvaluationError{Engine: "js", Err: errors.New("bad")}
	if got := wrapEvaluatorError("expr", evalErr); got != error(evalErr) {
		t.Fatalf("expected EvaluationError passthrough, got %v", got)
	}

	plain := errors.New("compile exploded")
	wrapped := wrapEvaluatorError("cel", plain)
	if !strings.HasPrefix(wrapped.Error(), "ctxvars: cel evaluator:") {
		t.Fatalf("unexpected wrap: %v", wrapped)
	}
	if !errors.Is(wrapped, plain) {
		t.Fatalf("expected wrap to preserve the chain")
	}
}

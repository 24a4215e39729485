package ctxvars

import (
	"errors"
	"fmt"
)

var (
	// ErrUnset indicates a variable with no outstanding assignment and no default.
	ErrUnset = errors.New("ctxvars: variable is not set")
	// ErrTokenReused indicates a token that was already consumed by Reset.
	ErrTokenReused = errors.New("ctxvars: token already consumed")
	// ErrTokenForeign indicates a token minted by a different variable.
	ErrTokenForeign = errors.New("ctxvars: token belongs to a different variable")
	// ErrResetOrder indicates a token that is no longer the most recent
	// outstanding assignment, usually because something outside the guard
	// mutated the variable after activation.
	ErrResetOrder = errors.New("ctxvars: token is not the most recent assignment")

	// ErrGuardActive indicates Apply on a guard that is already applied.
	ErrGuardActive = errors.New("ctxvars: guard already applied")
	// ErrGuardRestored indicates Apply or Restore on a guard that already
	// completed its restore phase. Guards are single use.
	ErrGuardRestored = errors.New("ctxvars: guard already restored")
	// ErrGuardNotApplied indicates Restore on a guard that was never applied.
	ErrGuardNotApplied = errors.New("ctxvars: guard has not been applied")
)

// ApplyError reports the assignment that failed during the apply phase.
// Assignments before Index remain applied; the guard stays restorable.
type ApplyError struct {
	Var   string
	Index int
	Err   error
}

func (e *ApplyError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ctxvars: apply %s (pair %d): %v", describeVar(e.Var), e.Index, e.Err)
}

func (e *ApplyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RestoreError reports a single failed reset during the restore phase.
// Restoration continues past failures; Guard.Restore joins every
// RestoreError it collected.
type RestoreError struct {
	Var   string
	Index int
	Err   error
}

func (e *RestoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ctxvars: restore %s (pair %d): %v", describeVar(e.Var), e.Index, e.Err)
}

func (e *RestoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeVar(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return fmt.Sprintf("%q", name)
}

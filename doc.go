// Package ctxvars provides context-local variables with stack-discipline
// assignment, and a single-use Guard that applies a batch of (variable, value)
// pairs and unwinds every one of them, in reverse order, on every exit path.
//
// A Var holds a named slot. Set pushes a binding and returns a single-use
// Token; Reset pops the binding captured by that token, restoring whatever
// was observable before, including the unset state.
//
//	greeting := ctxvars.NewVar[string]("greeting")
//	audience := ctxvars.NewVar[string]("audience")
//	greeting.Set("Hello,")
//	audience.Set("world!")
//
//	guard := ctxvars.New(
//		ctxvars.Assign(greeting, "other"),
//		ctxvars.Assign(audience, "value"),
//	)
//	err := guard.Do(func() error {
//		// greeting.Value() == "other", audience.Value() == "value"
//		return nil
//	})
//	// greeting.Value() == "Hello,", audience.Value() == "world!"
//
// Restoration runs unconditionally: normal return, block error, panic, or
// context cancellation via Guard.Run. A block error keeps propagation
// priority; restore failures are joined after it rather than replacing it.
//
// Beyond literal pairs, AssignExpr derives a value at apply time by
// evaluating an expression against a snapshot of other variables
// (expr-lang/expr by default, CEL and goja backends available), and
// pkg/snapshot captures whole binding sets that FromBindings turns back
// into guards.
//
// Vars guard their own stacks with a mutex; the package adds no isolation
// beyond that. Goroutines sharing the same variables observe each other's
// in-progress assignments.
package ctxvars

package ctxvars

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/goliatone/go-ctxvars/pkg/activity"
)

type guardState int

const (
	guardUnapplied guardState = iota
	guardApplied
	guardRestored
)

func (s guardState) String() string {
	switch s {
	case guardApplied:
		return "applied"
	case guardRestored:
		return "restored"
	default:
		return "unapplied"
	}
}

// Guard applies a batch of variable assignments on Apply and unwinds them in
// strict reverse order on Restore. A guard is single use: once restored it
// cannot be applied again, and the misuse transitions fail loudly rather
// than silently corrupting the token list.
//
// Guards run synchronously in whatever flow calls them and own nothing but
// their token list; they add no locking beyond what each Var provides.
type Guard struct {
	id          string
	assignments []Assignment
	tokens      []restorer
	state       guardState
	cfg         guardConfig
	trace       *Trace
}

// New constructs an unapplied guard over assignments, in order. Construction
// has no side effects; nothing is assigned until Apply. Zero assignments is
// legal and yields a no-op scope. Nil entries are dropped.
func New(assignments ...Assignment) *Guard {
	filtered := make([]Assignment, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment != nil {
			filtered = append(filtered, assignment)
		}
	}
	return &Guard{
		id:          uuid.New().String(),
		assignments: filtered,
	}
}

// Configure attaches options and returns the same guard for chaining. Call it
// before Apply; options attached later are not retroactive.
func (g *Guard) Configure(opts ...GuardOption) *Guard {
	for _, opt := range opts {
		if opt != nil {
			opt(&g.cfg)
		}
	}
	return g
}

// ID returns the guard identifier surfaced in traces, logs, and activity
// events.
func (g *Guard) ID() string {
	return g.id
}

// Active reports whether the guard has been applied and not yet restored.
func (g *Guard) Active() bool {
	return g.state == guardApplied
}

// Assignments returns a copy of the ordered assignment list.
func (g *Guard) Assignments() []Assignment {
	if len(g.assignments) == 0 {
		return nil
	}
	return append([]Assignment(nil), g.assignments...)
}

// Apply performs every assignment in input order, recording one restore
// token per pair. When pair k fails, pairs 0..k-1 stay applied and the
// failure propagates as an *ApplyError; the guard is left in the applied
// state so Restore can still unwind the partial token list.
func (g *Guard) Apply() error {
	switch g.state {
	case guardApplied:
		return fmt.Errorf("%w: %s", ErrGuardActive, g.id)
	case guardRestored:
		return fmt.Errorf("%w: %s", ErrGuardRestored, g.id)
	}
	g.state = guardApplied
	if g.cfg.captureTrace {
		g.trace = &Trace{GuardID: g.id}
	}

	start := time.Now()
	g.tokens = make([]restorer, 0, len(g.assignments))
	for i, assignment := range g.assignments {
		token, err := assignment.apply(&g.cfg)
		if err != nil {
			applyErr := &ApplyError{Var: assignment.Var(), Index: i, Err: err}
			g.traceApply(assignment.Var(), "", false, applyErr)
			g.logTransition("apply", time.Since(start), applyErr)
			return applyErr
		}
		g.tokens = append(g.tokens, token)
		g.traceApply(token.varName(), token.tokenID(), true, nil)
	}
	g.logTransition("apply", time.Since(start), nil)
	g.emitActivity(activity.VerbGuardApplied)
	return nil
}

// Restore unwinds every recorded token in reverse order of application. A
// failed reset is collected and restoration continues for the remaining
// tokens; the collected *RestoreError values are returned joined, so no
// failure is swallowed and no token is skipped.
func (g *Guard) Restore() error {
	switch g.state {
	case guardUnapplied:
		return fmt.Errorf("%w: %s", ErrGuardNotApplied, g.id)
	case guardRestored:
		return fmt.Errorf("%w: %s", ErrGuardRestored, g.id)
	}
	g.state = guardRestored

	start := time.Now()
	var errs []error
	for i := len(g.tokens) - 1; i >= 0; i-- {
		token := g.tokens[i]
		if err := token.reset(); err != nil {
			restoreErr := &RestoreError{Var: token.varName(), Index: i, Err: err}
			errs = append(errs, restoreErr)
			g.traceRestore(i, restoreErr)
			continue
		}
		g.traceRestore(i, nil)
	}
	err := errors.Join(errs...)
	g.logTransition("restore", time.Since(start), err)
	g.emitActivity(activity.VerbGuardRestored)
	return err
}

// Do applies the guard, runs fn, and restores on every exit path including
// panics. A block error keeps propagation priority; restore failures are
// joined after it rather than replacing it. When Apply fails the block never
// runs and the guard stays restorable by the caller.
func (g *Guard) Do(fn func() error) (err error) {
	if applyErr := g.Apply(); applyErr != nil {
		return applyErr
	}
	defer func() {
		if restoreErr := g.Restore(); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
	}()
	if fn == nil {
		return nil
	}
	return fn()
}

// Run is Do with a context threaded through to the block. Cancellation is an
// exit path like any other; the restore phase still runs.
func (g *Guard) Run(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if applyErr := g.Apply(); applyErr != nil {
		return applyErr
	}
	defer func() {
		if restoreErr := g.Restore(); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
	}()
	if fn == nil {
		return ctx.Err()
	}
	return fn(ctx)
}

// And returns a fresh unapplied guard performing g's assignments followed by
// other's, leaving both inputs untouched.
func (g *Guard) And(other *Guard) *Guard {
	return Combine(g, other)
}

// Combine concatenates the assignment lists of guards, in order, into a new
// unapplied guard. Nil guards are skipped.
func Combine(guards ...*Guard) *Guard {
	var assignments []Assignment
	for _, guard := range guards {
		if guard == nil {
			continue
		}
		assignments = append(assignments, guard.assignments...)
	}
	return New(assignments...)
}

// Trace returns the journal captured under WithTraceCapture, nil otherwise.
func (g *Guard) Trace() *Trace {
	return g.trace
}

func (g *Guard) String() string {
	return fmt.Sprintf("ctxvars.Guard(%s: %s)", g.state, strings.Join(g.varNames(), ", "))
}

func (g *Guard) varNames() []string {
	names := make([]string, 0, len(g.assignments))
	for _, assignment := range g.assignments {
		names = append(names, assignment.Var())
	}
	return names
}

func (g *Guard) logTransition(op string, duration time.Duration, err error) {
	g.cfg.guardLogger().LogTransition(GuardLogEvent{
		Op:       op,
		GuardID:  g.id,
		Vars:     g.varNames(),
		Duration: duration,
		Err:      err,
	})
}

// emitActivity notifies hooks after a phase completes. Emission failures are
// reported through the guard logger and never alter guard semantics.
func (g *Guard) emitActivity(verb string) {
	emitter := g.cfg.emitter()
	if !emitter.Enabled() {
		return
	}
	event := activity.BuildGuardEvent(verb, activity.GuardEventInput{
		GuardID: g.id,
		Vars:    g.varNames(),
	})
	if err := emitter.Emit(context.Background(), event); err != nil {
		g.cfg.guardLogger().LogTransition(GuardLogEvent{
			Op:      "activity",
			GuardID: g.id,
			Err:     err,
		})
	}
}

package snapshot

import (
	"context"
	"time"

	ctxvars "github.com/goliatone/go-ctxvars"
	"github.com/google/uuid"
)

// Meta is storage-owned metadata used for trace/audit.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	TakenAt    time.Time         `json:"taken_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Snapshot captures the values of a set of variables at one point in time,
// keyed by variable name.
type Snapshot struct {
	Values map[string]any `json:"values"`
	Meta   Meta           `json:"meta"`
}

// Take captures the current bindings of vars. Unset variables are omitted;
// the snapshot gets a fresh ID and timestamp.
func Take(vars ...ctxvars.NamedVar) Snapshot {
	return Snapshot{
		Values: ctxvars.Bindings(vars...),
		Meta: Meta{
			SnapshotID: uuid.New().String(),
			TakenAt:    time.Now(),
		},
	}
}

// Guard builds an unapplied guard that re-applies the snapshot onto the
// matching variables from vars. Values with no matching variable are an
// error; stored payloads are coerced back into each variable's value type.
func (s Snapshot) Guard(vars ...ctxvars.NamedVar) (*ctxvars.Guard, error) {
	return ctxvars.FromBindings(s.Values, vars...)
}

// Store loads and saves snapshots under caller-chosen keys.
type Store interface {
	Load(ctx context.Context, key string) (Snapshot, bool, error)
	Save(ctx context.Context, key string, snap Snapshot) (Meta, error)
}

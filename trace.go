package ctxvars

import "encoding/json"

// Trace journals the apply/restore lifecycle of a guard for auditing and
// debugging. Entries are ordered by application; restore outcomes are filled
// in as the unwind proceeds.
type Trace struct {
	GuardID string       `json:"guard_id"`
	Entries []TraceEntry `json:"entries"`
}

// TraceEntry records the outcome of one assignment.
type TraceEntry struct {
	Var      string `json:"var"`
	TokenID  string `json:"token_id,omitempty"`
	Applied  bool   `json:"applied"`
	Restored bool   `json:"restored"`
	Error    string `json:"error,omitempty"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// WithTraceCapture enables journal capture; the result is available from
// Guard.Trace after Apply.
func WithTraceCapture() GuardOption {
	return func(cfg *guardConfig) {
		cfg.captureTrace = true
	}
}

func (g *Guard) traceApply(varName, tokenID string, applied bool, err error) {
	if g.trace == nil {
		return
	}
	entry := TraceEntry{
		Var:     varName,
		TokenID: tokenID,
		Applied: applied,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	g.trace.Entries = append(g.trace.Entries, entry)
}

// traceRestore indexes into the entries recorded for successful applies;
// a trailing failed-apply entry, if any, sits past every restorable index.
func (g *Guard) traceRestore(index int, err error) {
	if g.trace == nil || index < 0 || index >= len(g.trace.Entries) {
		return
	}
	if err != nil {
		g.trace.Entries[index].Error = err.Error()
		return
	}
	g.trace.Entries[index].Restored = true
}

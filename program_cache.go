package ctxvars

// ProgramCache stores compiled expression programs keyed by expression
// strings. Implementations decide eviction; the evaluators only get and set.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

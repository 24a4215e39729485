// Package snapshot captures and persists sets of variable bindings so a
// whole context of assignments can be re-applied later through a guard.
//
// Responsibilities:
//   - Take captures the current bindings of a variable set plus
//     storage-owned Meta (snapshot ID, timestamp).
//   - Store only loads/saves a single Snapshot under a caller-chosen key;
//     persistence stays behind Store implementations supplied by consumers.
//   - Snapshot.Guard rebuilds an unapplied ctxvars.Guard by coercing each
//     stored value back onto the matching variable.
//
// Data flow:
//
//	Take(vars...) -> Store.Save -> Store.Load -> Snapshot.Guard(vars...) -> Guard.Do
package snapshot

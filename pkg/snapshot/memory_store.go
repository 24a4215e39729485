package snapshot

import (
	"context"
	"sync"
	"time"

	ctxvars "github.com/goliatone/go-ctxvars"
	"github.com/google/uuid"
)

// MemoryStore is a minimal in-memory Store implementation intended for tests
// and examples. It makes no persistence assumptions beyond keying by the
// caller's string.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Snapshot{}}
}

func (s *MemoryStore) Load(_ context.Context, key string) (Snapshot, bool, error) {
	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, false, nil
	}
	return cloneSnapshot(record), true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, snap Snapshot) (Meta, error) {
	if snap.Meta.SnapshotID == "" {
		snap.Meta.SnapshotID = uuid.New().String()
	}
	if snap.Meta.TakenAt.IsZero() {
		snap.Meta.TakenAt = time.Now()
	}

	s.mu.Lock()
	s.records[key] = cloneSnapshot(snap)
	s.mu.Unlock()
	return cloneMeta(snap.Meta), nil
}

func cloneSnapshot(snap Snapshot) Snapshot {
	return Snapshot{
		Values: ctxvars.Clone(snap.Values),
		Meta:   cloneMeta(snap.Meta),
	}
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

package selection

import (
	"context"
	"encoding/json"

	"arbor/internal/logger"
)

// StorageKey is the fixed key navigation state is persisted under,
// optionally suffixed with a session identifier.
const StorageKey = "events-tracker-filter-state"

// KV is the durable key-value capability the filter store needs.
// Satisfied by the implementations in internal/kv.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Snapshot is the persisted navigation state. SelectionChain is stored
// deepest-first, exactly as Chain holds it in memory.
type Snapshot struct {
	AreaID             *string    `json:"areaId"`
	SelectionChain     []Category `json:"selectionChain"`
	SelectedShortcutID *string    `json:"selectedShortcutId"`
}

// FilterStore persists navigation snapshots under a fixed per-session
// key. Persistence is best-effort: failures are logged, never
// propagated, and never block navigation.
type FilterStore struct {
	kv  KV
	key string
}

// NewFilterStore creates a store scoped to the given session. An empty
// sessionID uses the bare storage key.
func NewFilterStore(store KV, sessionID string) *FilterStore {
	key := StorageKey
	if sessionID != "" {
		key = StorageKey + ":" + sessionID
	}
	return &FilterStore{kv: store, key: key}
}

// Save serializes the snapshot under the store's key.
func (s *FilterStore) Save(ctx context.Context, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		logger.Get().Warnw("filter snapshot marshal failed", "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		logger.Get().Warnw("filter snapshot save failed", "key", s.key, "error", err)
	}
}

// Load reads the persisted snapshot. A missing key, storage failure, or
// unparseable payload all return nil so startup is never blocked.
func (s *FilterStore) Load(ctx context.Context) *Snapshot {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		logger.Get().Warnw("filter snapshot load failed", "key", s.key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logger.Get().Warnw("filter snapshot corrupt, discarding", "key", s.key, "error", err)
		return nil
	}
	return &snap
}

// Clear removes the persisted snapshot.
func (s *FilterStore) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		logger.Get().Warnw("filter snapshot clear failed", "key", s.key, "error", err)
	}
}

package quiz

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// SnapshotTTL is how long a persisted snapshot stays restorable. Anything
// older is treated as absent and discarded at load time.
const SnapshotTTL = 24 * time.Hour

// Snapshot is the durable serialization of an in-progress session. It is the
// only state that crosses a reload boundary.
type Snapshot struct {
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	Answers              map[int]string `json:"answers"`
	Timestamp            int64          `json:"timestamp"` // epoch millis
}

// SnapshotStore persists the raw snapshot bytes for a single session slot.
// Implementations must treat Load of a missing snapshot as (nil, nil).
type SnapshotStore interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
	Clear(ctx context.Context) error
}

// SnapshotBackend is a keyed variant backing many session slots, typically
// the SQLite repository. Manager binds a key per (visitor, tab).
type SnapshotBackend interface {
	SaveSnapshot(ctx context.Context, key string, data []byte) error
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
	ClearSnapshot(ctx context.Context, key string) error
}

type keyedStore struct {
	backend SnapshotBackend
	key     string
}

func (s keyedStore) Save(ctx context.Context, data []byte) error {
	return s.backend.SaveSnapshot(ctx, s.key, data)
}

func (s keyedStore) Load(ctx context.Context) ([]byte, error) {
	return s.backend.LoadSnapshot(ctx, s.key)
}

func (s keyedStore) Clear(ctx context.Context) error {
	return s.backend.ClearSnapshot(ctx, s.key)
}

// MemoryBackend is an in-memory SnapshotBackend for tests and for running
// without a database.
type MemoryBackend struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemoryBackend creates an empty in-memory snapshot backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

// SaveSnapshot stores the snapshot bytes, replacing any prior snapshot.
func (m *MemoryBackend) SaveSnapshot(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.slots[key] = buf
	return nil
}

// LoadSnapshot returns the stored bytes, or nil when absent.
func (m *MemoryBackend) LoadSnapshot(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[key]
	if !ok {
		return nil, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// ClearSnapshot deletes the stored snapshot, if any.
func (m *MemoryBackend) ClearSnapshot(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// saveSnapshot serializes the session and writes it through the store.
// Persistence failures are logged, never surfaced: the in-memory session
// stays authoritative for the life of the flow.
func saveSnapshot(ctx context.Context, store SnapshotStore, sess *Session, now time.Time) {
	if store == nil {
		return
	}
	snap := Snapshot{
		CurrentQuestionIndex: sess.Index,
		Answers:              sess.Answers,
		Timestamp:            now.UnixMilli(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Warn("quiz: failed to serialize snapshot", "error", err)
		return
	}
	if err := store.Save(ctx, data); err != nil {
		slog.Warn("quiz: failed to persist snapshot", "error", err)
	}
}

// loadSnapshot reads and validates a stored snapshot. Absent, malformed, and
// expired snapshots all come back as nil; malformed/expired data is also
// cleared so it is never considered again.
func loadSnapshot(ctx context.Context, store SnapshotStore, now time.Time, questionCount int) *Snapshot {
	if store == nil {
		return nil
	}
	data, err := store.Load(ctx)
	if err != nil {
		slog.Warn("quiz: failed to read snapshot", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("quiz: discarding malformed snapshot", "error", err)
		clearSnapshot(ctx, store)
		return nil
	}

	age := now.Sub(time.UnixMilli(snap.Timestamp))
	if age >= SnapshotTTL || age < 0 {
		slog.Info("quiz: discarding expired snapshot", "age", age)
		clearSnapshot(ctx, store)
		return nil
	}

	if snap.CurrentQuestionIndex < 0 || snap.CurrentQuestionIndex >= questionCount {
		slog.Warn("quiz: discarding snapshot with out-of-range index", "index", snap.CurrentQuestionIndex)
		clearSnapshot(ctx, store)
		return nil
	}
	if snap.Answers == nil {
		snap.Answers = make(map[int]string)
	}
	return &snap
}

func clearSnapshot(ctx context.Context, store SnapshotStore) {
	if store == nil {
		return
	}
	if err := store.Clear(ctx); err != nil {
		slog.Warn("quiz: failed to clear snapshot", "error", err)
	}
}

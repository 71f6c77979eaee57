package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type failingStore struct{ err error }

func (s failingStore) Save(context.Context, []byte) error   { return s.err }
func (s failingStore) Load(context.Context) ([]byte, error) { return nil, s.err }
func (s failingStore) Clear(context.Context) error          { return s.err }

func testStore(backend *MemoryBackend) SnapshotStore {
	return keyedStore{backend: backend, key: "k"}
}

func TestSnapshotRoundTrip(t *testing.T) {
	backend := NewMemoryBackend()
	store := testStore(backend)
	ctx := context.Background()
	now := time.Now()

	sess := newSession()
	sess.Index = 4
	sess.Answers[0] = "답"
	sess.Answers[3] = "또 다른 답"

	saveSnapshot(ctx, store, &sess, now)

	snap := loadSnapshot(ctx, store, now.Add(time.Hour), QuestionCount())
	if snap == nil {
		t.Fatal("loadSnapshot returned nil for a fresh snapshot")
	}
	if snap.CurrentQuestionIndex != 4 {
		t.Errorf("index = %d, want 4", snap.CurrentQuestionIndex)
	}
	if snap.Answers[3] != "또 다른 답" {
		t.Errorf("answers = %v", snap.Answers)
	}
}

func TestSnapshotExpiry(t *testing.T) {
	backend := NewMemoryBackend()
	store := testStore(backend)
	ctx := context.Background()
	saved := time.Now()

	sess := newSession()
	saveSnapshot(ctx, store, &sess, saved)

	// One minute short of the cutoff is still restorable.
	if loadSnapshot(ctx, store, saved.Add(SnapshotTTL-time.Minute), QuestionCount()) == nil {
		t.Fatal("snapshot inside the window not restored")
	}
	// At the cutoff it is gone, and the stored bytes with it.
	if loadSnapshot(ctx, store, saved.Add(SnapshotTTL), QuestionCount()) != nil {
		t.Fatal("snapshot at the cutoff restored")
	}
	if data, _ := backend.LoadSnapshot(ctx, "k"); data != nil {
		t.Error("expired snapshot left in the store")
	}
}

func TestSnapshotFutureTimestampDiscarded(t *testing.T) {
	backend := NewMemoryBackend()
	store := testStore(backend)
	ctx := context.Background()

	snap := Snapshot{CurrentQuestionIndex: 1, Timestamp: time.Now().Add(time.Hour).UnixMilli()}
	data, _ := json.Marshal(snap)
	backend.SaveSnapshot(ctx, "k", data)

	if loadSnapshot(ctx, store, time.Now(), QuestionCount()) != nil {
		t.Fatal("snapshot with a future timestamp restored")
	}
}

func TestSnapshotMalformedDiscarded(t *testing.T) {
	backend := NewMemoryBackend()
	store := testStore(backend)
	ctx := context.Background()

	backend.SaveSnapshot(ctx, "k", []byte("{not json"))
	if loadSnapshot(ctx, store, time.Now(), QuestionCount()) != nil {
		t.Fatal("malformed snapshot restored")
	}
	if data, _ := backend.LoadSnapshot(ctx, "k"); data != nil {
		t.Error("malformed snapshot left in the store")
	}
}

func TestSnapshotOutOfRangeIndexDiscarded(t *testing.T) {
	backend := NewMemoryBackend()
	store := testStore(backend)
	ctx := context.Background()

	for _, idx := range []int{-1, QuestionCount()} {
		snap := Snapshot{CurrentQuestionIndex: idx, Timestamp: time.Now().UnixMilli()}
		data, _ := json.Marshal(snap)
		backend.SaveSnapshot(ctx, "k", data)
		if loadSnapshot(ctx, store, time.Now(), QuestionCount()) != nil {
			t.Errorf("snapshot with index %d restored", idx)
		}
	}
}

func TestSnapshotStoreFailuresAreSilent(t *testing.T) {
	store := failingStore{err: errors.New("disk gone")}
	ctx := context.Background()

	sess := newSession()
	// None of these may panic or surface the error.
	saveSnapshot(ctx, store, &sess, time.Now())
	if loadSnapshot(ctx, store, time.Now(), QuestionCount()) != nil {
		t.Fatal("failing store produced a snapshot")
	}
	clearSnapshot(ctx, store)
}

func TestSnapshotNilStoreIsNoOp(t *testing.T) {
	ctx := context.Background()
	sess := newSession()
	saveSnapshot(ctx, nil, &sess, time.Now())
	if loadSnapshot(ctx, nil, time.Now(), QuestionCount()) != nil {
		t.Fatal("nil store produced a snapshot")
	}
	clearSnapshot(ctx, nil)
}

package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/naga-cloud/mediadex/internal/repository/state"
)

type mockSnapshots struct {
	mu     sync.Mutex
	loadFn func(ctx context.Context) (*state.Snapshot, error)
	saveFn func(ctx context.Context, snap *state.Snapshot) error
	saves  int
	last   *state.Snapshot
}

func (m *mockSnapshots) Load(ctx context.Context) (*state.Snapshot, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return &state.Snapshot{Counters: map[string]int64{}}, nil
}

func (m *mockSnapshots) Save(ctx context.Context, snap *state.Snapshot) error {
	m.mu.Lock()
	m.saves++
	m.last = snap
	m.mu.Unlock()
	if m.saveFn != nil {
		return m.saveFn(ctx, snap)
	}
	return nil
}

func (m *mockSnapshots) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *mockSnapshots) lastSnapshot() *state.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func TestLoad_RestoresCountersAndBans(t *testing.T) {
	ms := &mockSnapshots{
		loadFn: func(_ context.Context) (*state.Snapshot, error) {
			return &state.Snapshot{
				Counters: map[string]int64{CounterQueries: 12},
				Banned:   []int64{42},
			}, nil
		},
	}
	tr := New(ms, nil)

	if err := tr.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Counter(CounterQueries) != 12 {
		t.Errorf("counter not restored: %d", tr.Counter(CounterQueries))
	}
	if !tr.IsBanned(42) {
		t.Error("ban not restored")
	}
	if tr.UniqueCallers() != 0 {
		t.Error("seen set must not survive a restart")
	}
}

func TestTrackQuery(t *testing.T) {
	tr := New(nil, nil)

	tr.TrackQuery(1)
	tr.TrackQuery(2)
	tr.TrackQuery(1)

	if got := tr.Counter(CounterQueries); got != 3 {
		t.Errorf("expected 3 queries, got %d", got)
	}
	if got := tr.UniqueCallers(); got != 2 {
		t.Errorf("expected 2 unique callers, got %d", got)
	}
	if got := tr.Counter(CounterUsers); got != 2 {
		t.Errorf("expected total_users = 2, got %d", got)
	}
}

func TestTrackQuery_FirstSightBumpsUserCounter(t *testing.T) {
	ms := &mockSnapshots{}
	tr := New(ms, nil)

	tr.TrackQuery(42)
	if got := tr.Counter(CounterUsers); got != 1 {
		t.Fatalf("total_users = %d, want 1", got)
	}
	tr.TrackQuery(42)
	if got := tr.Counter(CounterUsers); got != 1 {
		t.Errorf("repeat caller must not bump total_users, got %d", got)
	}

	if err := tr.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ms.lastSnapshot().Counters[CounterUsers]; got != 1 {
		t.Errorf("total_users not persisted: %d", got)
	}
}

func TestIncrement(t *testing.T) {
	tr := New(nil, nil)

	tr.Increment(CounterFiles)
	tr.Increment(CounterFiles)

	if got := tr.Counter(CounterFiles); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := tr.Counters()[CounterFiles]; got != 2 {
		t.Errorf("Counters() disagrees: %d", got)
	}
}

func TestBan_FlushesEagerly(t *testing.T) {
	ms := &mockSnapshots{}
	tr := New(ms, nil)
	ctx := context.Background()

	if err := tr.Ban(ctx, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tr.IsBanned(42) {
		t.Error("caller not banned")
	}
	if ms.saveCount() != 1 {
		t.Errorf("ban must flush immediately, saves=%d", ms.saveCount())
	}
	snap := ms.lastSnapshot()
	if len(snap.Banned) != 1 || snap.Banned[0] != 42 {
		t.Errorf("unexpected snapshot bans: %v", snap.Banned)
	}

	if err := tr.Unban(ctx, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.IsBanned(42) {
		t.Error("caller still banned")
	}
	if ms.saveCount() != 2 {
		t.Errorf("unban must flush immediately, saves=%d", ms.saveCount())
	}
}

func TestFlush_FailureKeepsStateDirty(t *testing.T) {
	ms := &mockSnapshots{
		saveFn: func(_ context.Context, _ *state.Snapshot) error {
			return errors.New("backend down")
		},
	}
	tr := New(ms, nil)
	tr.Increment(CounterFiles)

	if err := tr.Flush(context.Background()); err == nil {
		t.Fatal("expected flush error")
	}
	tr.mu.RLock()
	dirty := tr.dirty
	tr.mu.RUnlock()
	if !dirty {
		t.Error("failed flush must leave state dirty for retry")
	}
}

func TestStop_FlushesPendingState(t *testing.T) {
	ms := &mockSnapshots{}
	tr := New(ms, nil)
	tr.StartAutosave(time.Hour)

	tr.Increment(CounterFiles)
	tr.Stop(context.Background())

	if ms.saveCount() != 1 {
		t.Errorf("stop must flush dirty state, saves=%d", ms.saveCount())
	}
	if got := ms.lastSnapshot().Counters[CounterFiles]; got != 1 {
		t.Errorf("unexpected persisted counter: %d", got)
	}
}

func TestStop_CleanStateSkipsFlush(t *testing.T) {
	ms := &mockSnapshots{}
	tr := New(ms, nil)
	tr.StartAutosave(time.Hour)

	tr.Stop(context.Background())

	if ms.saveCount() != 0 {
		t.Errorf("clean state must not be flushed, saves=%d", ms.saveCount())
	}
}

func TestAutosave_FlushesDirtyState(t *testing.T) {
	ms := &mockSnapshots{}
	tr := New(ms, nil)
	tr.StartAutosave(10 * time.Millisecond)
	defer tr.Stop(context.Background())

	tr.TrackQuery(1)

	deadline := time.After(time.Second)
	for ms.saveCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("autosave never flushed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestReset_ClearsCountersKeepsBans(t *testing.T) {
	ms := &mockSnapshots{}
	tr := New(ms, nil)
	ctx := context.Background()

	tr.TrackQuery(1)
	if err := tr.Ban(ctx, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tr.Reset(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tr.Counter(CounterQueries); got != 0 {
		t.Errorf("counter not cleared: %d", got)
	}
	if !tr.IsBanned(42) {
		t.Error("reset must not touch the ban list")
	}
	if len(ms.lastSnapshot().Counters) != 0 {
		t.Errorf("cleared counters not flushed: %v", ms.lastSnapshot().Counters)
	}
}

func TestNilStore_AllOpsSafe(t *testing.T) {
	tr := New(nil, nil)
	ctx := context.Background()

	if err := tr.Load(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.TrackQuery(1)
	if err := tr.Ban(ctx, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Flush(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.StartAutosave(time.Minute)
	tr.Stop(ctx)
}

// Package stats tracks usage counters and the caller ban list. The live
// state is in memory behind a RWMutex; a background loop flushes dirty state
// to the snapshot store, and ban changes flush eagerly so a restart cannot
// resurrect a banned caller.
package stats

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/naga-cloud/mediadex/internal/metrics"
	"github.com/naga-cloud/mediadex/internal/repository/state"
)

// Well-known counter names.
const (
	CounterQueries = "total_queries"
	CounterFiles   = "total_files"
	CounterUsers   = "total_users"
)

// Tracker holds usage counters, the ban list and the set of callers seen
// since process start.
type Tracker struct {
	mu       sync.RWMutex
	counters map[string]int64
	banned   map[int64]struct{}
	seen     map[int64]struct{}
	dirty    bool

	store  SnapshotStore
	logger *zap.Logger

	running  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a tracker. store can be nil (state is not persisted).
func New(store SnapshotStore, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		counters: make(map[string]int64),
		banned:   make(map[int64]struct{}),
		seen:     make(map[int64]struct{}),
		store:    store,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Load restores counters and bans from the last snapshot. The seen-caller
// set is intentionally not restored; it tracks the current process only.
func (t *Tracker) Load(ctx context.Context) error {
	if t.store == nil {
		return nil
	}

	snap, err := t.store.Load(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for name, val := range snap.Counters {
		t.counters[name] = val
	}
	for _, id := range snap.Banned {
		t.banned[id] = struct{}{}
	}
	return nil
}

// StartAutosave launches the periodic flush loop. Call Stop to end it.
func (t *Tracker) StartAutosave(interval time.Duration) {
	if t.store == nil || interval <= 0 {
		return
	}
	t.running = true

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.flushIfDirty(context.Background())
			case <-t.stop:
				return
			}
		}
	}()
}

// Stop ends the autosave loop and flushes any pending state.
func (t *Tracker) Stop(ctx context.Context) {
	t.stopOnce.Do(func() { close(t.stop) })
	if t.running {
		<-t.done
	}
	t.flushIfDirty(ctx)
}

// Increment bumps a named counter by one.
func (t *Tracker) Increment(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters[name]++
	t.dirty = true
}

// TrackQuery counts a served query and records the caller as seen. The
// first sighting of a caller this process also bumps the persisted
// total_users counter.
func (t *Tracker) TrackQuery(callerID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters[CounterQueries]++
	if _, ok := t.seen[callerID]; !ok {
		t.seen[callerID] = struct{}{}
		t.counters[CounterUsers]++
	}
	t.dirty = true
}

// IsBanned reports whether the caller is on the ban list.
func (t *Tracker) IsBanned(callerID int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, banned := t.banned[callerID]
	return banned
}

// Ban adds the caller to the ban list and flushes immediately.
func (t *Tracker) Ban(ctx context.Context, callerID int64) error {
	t.mu.Lock()
	t.banned[callerID] = struct{}{}
	t.dirty = true
	t.mu.Unlock()
	return t.flush(ctx)
}

// Unban removes the caller from the ban list and flushes immediately.
func (t *Tracker) Unban(ctx context.Context, callerID int64) error {
	t.mu.Lock()
	delete(t.banned, callerID)
	t.dirty = true
	t.mu.Unlock()
	return t.flush(ctx)
}

// Counters returns a copy of the current counter values.
func (t *Tracker) Counters() map[string]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]int64, len(t.counters))
	for name, val := range t.counters {
		out[name] = val
	}
	return out
}

// Counter returns a single counter value.
func (t *Tracker) Counter(name string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counters[name]
}

// BannedIDs returns the current ban list.
func (t *Tracker) BannedIDs() []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]int64, 0, len(t.banned))
	for id := range t.banned {
		out = append(out, id)
	}
	return out
}

// Reset clears all counters and flushes immediately. The ban list and the
// seen-caller set are untouched.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	t.counters = make(map[string]int64)
	t.dirty = true
	t.mu.Unlock()
	return t.flush(ctx)
}

// UniqueCallers returns how many distinct callers were seen since start.
func (t *Tracker) UniqueCallers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.seen)
}

// Flush persists the current state regardless of the dirty flag.
func (t *Tracker) Flush(ctx context.Context) error {
	return t.flush(ctx)
}

func (t *Tracker) flushIfDirty(ctx context.Context) {
	t.mu.RLock()
	dirty := t.dirty
	t.mu.RUnlock()
	if !dirty {
		return
	}
	if err := t.flush(ctx); err != nil {
		t.logger.Warn("state flush failed", zap.Error(err))
	}
}

func (t *Tracker) flush(ctx context.Context) error {
	if t.store == nil {
		return nil
	}

	t.mu.Lock()
	snap := t.snapshotLocked()
	t.dirty = false
	t.mu.Unlock()

	if err := t.store.Save(ctx, snap); err != nil {
		t.mu.Lock()
		t.dirty = true
		t.mu.Unlock()
		metrics.SnapshotFlushTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.SnapshotFlushTotal.WithLabelValues("ok").Inc()
	return nil
}

// snapshotLocked copies the persistable state. Caller holds the lock.
func (t *Tracker) snapshotLocked() *state.Snapshot {
	counters := make(map[string]int64, len(t.counters))
	for name, val := range t.counters {
		counters[name] = val
	}
	banned := make([]int64, 0, len(t.banned))
	for id := range t.banned {
		banned = append(banned, id)
	}
	return &state.Snapshot{Counters: counters, Banned: banned}
}

// Package state persists the usage-counter and ban snapshots as JSON blobs.
// The live state lives in memory; this store only loads it at startup and
// writes it back on flush.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/naga-cloud/mediadex/internal/db"
)

// store is the consumer interface for snapshot persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Snapshot is the persisted shape of the tracker state.
type Snapshot struct {
	Counters  map[string]int64 `json:"counters"`
	Banned    []int64          `json:"banned"`
	FlushedAt int64            `json:"flushed_at"`
}

// Store reads and writes tracker snapshots under a single key.
type Store struct {
	store  store
	prefix string
}

// New creates a snapshot store.
func New(s store, prefix string) *Store {
	return &Store{store: s, prefix: prefix}
}

// Load returns the last persisted snapshot. A missing key yields an empty
// snapshot, not an error: first start has nothing to restore.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	data, err := s.store.Get(ctx, s.key())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return &Snapshot{Counters: map[string]int64{}}, nil
		}
		return nil, fmt.Errorf("load state snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode state snapshot: %w", err)
	}
	if snap.Counters == nil {
		snap.Counters = map[string]int64{}
	}
	return &snap, nil
}

// Save persists the snapshot, stamping the flush time.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	snap.FlushedAt = time.Now().Unix()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode state snapshot: %w", err)
	}
	if err := s.store.Set(ctx, s.key(), data); err != nil {
		return fmt.Errorf("save state snapshot: %w", err)
	}
	return nil
}

func (s *Store) key() string { return s.prefix + "state:snapshot" }

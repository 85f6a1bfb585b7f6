package stats

import (
	"context"

	"github.com/naga-cloud/mediadex/internal/repository/state"
)

// SnapshotStore persists the tracker state between restarts.
type SnapshotStore interface {
	Load(ctx context.Context) (*state.Snapshot, error)
	Save(ctx context.Context, snap *state.Snapshot) error
}

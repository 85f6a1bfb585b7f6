package search

import (
	"context"
	"time"

	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
)

// Repository defines the storage contract for record search.
type Repository interface {
	Search(ctx context.Context, terms string, kind domrec.Kind, hasKind bool, limit int) (
		[]domrec.Record, error,
	)
}

// Limiter admits or rejects a caller's attempt.
type Limiter interface {
	Admit(callerID int64) bool
	TimeUntilReset(callerID int64) (time.Duration, bool)
}

// Tracker answers ban lookups and counts served queries.
type Tracker interface {
	IsBanned(callerID int64) bool
	TrackQuery(callerID int64)
}

// MembershipChecker verifies that a caller belongs to the required channel.
type MembershipChecker interface {
	IsMember(ctx context.Context, channelID, callerID int64) (bool, error)
}

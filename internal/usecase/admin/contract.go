package admin

import "context"

// Repository defines the storage contract for administrative operations.
type Repository interface {
	DeleteByLocator(ctx context.Context, locator string) (bool, error)
	CountAll(ctx context.Context) (int, error)
	CountByKind(ctx context.Context) (map[string]int, error)
	CountByOrigin(ctx context.Context) (map[string]int, error)
}

// Tracker manages the ban list and exposes usage counters.
type Tracker interface {
	Ban(ctx context.Context, callerID int64) error
	Unban(ctx context.Context, callerID int64) error
	Reset(ctx context.Context) error
	IsBanned(callerID int64) bool
	Counters() map[string]int64
	BannedIDs() []int64
	UniqueCallers() int
}

// Package admin exposes the operator surface: ban management, record
// removal and index statistics. Callers must be authorized before reaching
// this layer.
package admin

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Totals is an aggregate view of the index and its usage.
type Totals struct {
	Records       int
	Counters      map[string]int64
	UniqueCallers int
	Banned        []int64
}

// Service handles administrative operations.
type Service struct {
	repo    Repository
	tracker Tracker
	logger  *zap.Logger
}

// New creates an admin service.
func New(repo Repository, tracker Tracker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, tracker: tracker, logger: logger}
}

// Ban puts the caller on the ban list. Banning an already banned caller is
// a no-op.
func (s *Service) Ban(ctx context.Context, callerID int64) error {
	if err := s.tracker.Ban(ctx, callerID); err != nil {
		return fmt.Errorf("ban caller %d: %w", callerID, err)
	}
	s.logger.Info("caller banned", zap.Int64("caller_id", callerID))
	return nil
}

// Unban removes the caller from the ban list.
func (s *Service) Unban(ctx context.Context, callerID int64) error {
	if err := s.tracker.Unban(ctx, callerID); err != nil {
		return fmt.Errorf("unban caller %d: %w", callerID, err)
	}
	s.logger.Info("caller unbanned", zap.Int64("caller_id", callerID))
	return nil
}

// ResetCounters zeroes all usage counters. The ban list stays intact.
func (s *Service) ResetCounters(ctx context.Context) error {
	if err := s.tracker.Reset(ctx); err != nil {
		return fmt.Errorf("reset counters: %w", err)
	}
	s.logger.Info("usage counters reset")
	return nil
}

// DeleteByLocator removes the record identified by its transport locator.
// Returns false when no record matches.
func (s *Service) DeleteByLocator(ctx context.Context, locator string) (bool, error) {
	deleted, err := s.repo.DeleteByLocator(ctx, locator)
	if err != nil {
		return false, fmt.Errorf("delete by locator: %w", err)
	}
	if deleted {
		s.logger.Info("record deleted", zap.String("locator", locator))
	}
	return deleted, nil
}

// Totals returns the aggregate index and usage view. The ban list is sorted
// for stable output.
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	records, err := s.repo.CountAll(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("count records: %w", err)
	}

	banned := s.tracker.BannedIDs()
	sort.Slice(banned, func(i, j int) bool { return banned[i] < banned[j] })

	return Totals{
		Records:       records,
		Counters:      s.tracker.Counters(),
		UniqueCallers: s.tracker.UniqueCallers(),
		Banned:        banned,
	}, nil
}

// CountsByKind returns per-kind record counts.
func (s *Service) CountsByKind(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByKind(ctx)
}

// CountsByOrigin returns per-origin-channel record counts.
func (s *Service) CountsByOrigin(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByOrigin(ctx)
}

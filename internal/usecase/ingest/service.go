// Package ingest turns channel events into canonical records and feeds the
// index.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/naga-cloud/mediadex/internal/domain"
	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
	"github.com/naga-cloud/mediadex/internal/metrics"
	"github.com/naga-cloud/mediadex/internal/usecase/stats"
)

// Outcome classifies what happened to an ingested event.
type Outcome string

const (
	// OutcomeInserted means a new record entered the index.
	OutcomeInserted Outcome = "inserted"
	// OutcomeDuplicate means the record was already stored.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeSkipped means the event carried nothing indexable.
	OutcomeSkipped Outcome = "skipped"
)

// Service handles event ingestion.
type Service struct {
	repo    Repository
	tracker Stats
	logger  *zap.Logger
	now     func() time.Time
}

// New creates an ingestion service. tracker can be nil.
func New(repo Repository, tracker Stats, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, tracker: tracker, logger: logger, now: time.Now}
}

// Index builds a record from the event and stores it. Events without media,
// malformed events and duplicate records are normal outcomes, not errors.
func (s *Service) Index(ctx context.Context, ev domrec.Event) (Outcome, error) {
	rec, err := domrec.FromEvent(ev, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNoMedia) {
			return OutcomeSkipped, nil
		}
		if errors.Is(err, domain.ErrInvalidEvent) {
			s.logger.Warn("dropping malformed event",
				zap.Int64("channel_id", ev.ChannelID),
				zap.Int64("message_id", ev.MessageID),
				zap.Error(err),
			)
			return OutcomeSkipped, nil
		}
		return OutcomeSkipped, fmt.Errorf("build record: %w", err)
	}

	created, err := s.repo.Upsert(ctx, &rec)
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("store record: %w", err)
	}

	if !created {
		metrics.RecordsDuplicateTotal.Inc()
		return OutcomeDuplicate, nil
	}

	if s.tracker != nil {
		s.tracker.Increment(stats.CounterFiles)
	}
	metrics.RecordsIndexedTotal.WithLabelValues(string(rec.Kind)).Inc()

	s.logger.Debug("record indexed",
		zap.String("kind", string(rec.Kind)),
		zap.String("name", rec.FileName),
		zap.Int64("channel_id", rec.ChannelID),
	)
	return OutcomeInserted, nil
}

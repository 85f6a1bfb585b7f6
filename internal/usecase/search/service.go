// Package search runs the query admission pipeline: ban check, access
// control, rate limiting, parsing, store lookup and result shaping. Checks
// short-circuit in that order; a rejected query never reaches the store and
// never counts toward usage.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/naga-cloud/mediadex/internal/domain/query"
	"github.com/naga-cloud/mediadex/internal/format"
	"github.com/naga-cloud/mediadex/internal/metrics"
)

// Status classifies the outcome of a search request.
type Status string

const (
	// StatusServed means results (possibly empty) were returned.
	StatusServed Status = "served"
	// StatusBanned means the caller is on the ban list.
	StatusBanned Status = "banned"
	// StatusUnauthorized means the caller is not on the allow list.
	StatusUnauthorized Status = "unauthorized"
	// StatusNotMember means the caller failed the channel membership check.
	StatusNotMember Status = "not_member"
	// StatusRateLimited means the caller exceeded their request window.
	StatusRateLimited Status = "rate_limited"
)

// Request is one incoming search query.
type Request struct {
	CallerID int64
	Text     string
}

// Response is the outcome of a search request. CacheTTL advises the caller
// how long the response stays valid; RetryAfter is set only for rate-limited
// outcomes. Degraded marks an empty result caused by a backend failure
// rather than a true miss.
type Response struct {
	Status     Status
	Entries    []format.Entry
	Total      int
	CacheTTL   time.Duration
	RetryAfter time.Duration
	Degraded   bool
}

// Config carries the admission and caching policy.
type Config struct {
	// AuthUsers is the caller allow list. Empty means open access.
	AuthUsers []int64
	// AuthChannel requires membership in this channel when non-zero.
	AuthChannel int64
	// MaxResults caps how many records a single query returns.
	MaxResults int
	// CacheEmpty is the cache advice for zero-result responses.
	CacheEmpty time.Duration
	// CacheDefault is the cache advice for regular responses.
	CacheDefault time.Duration
	// CacheBrowse is the cache advice for unfiltered browse responses.
	CacheBrowse time.Duration
}

// Service is the search pipeline.
type Service struct {
	repo       Repository
	limiter    Limiter
	tracker    Tracker
	membership MembershipChecker
	cfg        Config
	authUsers  map[int64]struct{}
	logger     *zap.Logger
}

// New creates a search service. limiter, tracker and membership can be nil;
// the corresponding check is then skipped.
func New(
	repo Repository, limiter Limiter, tracker Tracker,
	membership MembershipChecker, cfg Config, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > format.MaxEntries {
		cfg.MaxResults = format.MaxEntries
	}

	authUsers := make(map[int64]struct{}, len(cfg.AuthUsers))
	for _, id := range cfg.AuthUsers {
		authUsers[id] = struct{}{}
	}

	return &Service{
		repo:       repo,
		limiter:    limiter,
		tracker:    tracker,
		membership: membership,
		cfg:        cfg,
		authUsers:  authUsers,
		logger:     logger,
	}
}

// Handle runs the request through the pipeline and returns the outcome.
// The only error source is request-independent internal failure; backend
// search errors degrade to an empty served response instead.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	if s.tracker != nil && s.tracker.IsBanned(req.CallerID) {
		metrics.QueriesTotal.WithLabelValues(string(StatusBanned)).Inc()
		return Response{Status: StatusBanned}
	}

	if len(s.authUsers) > 0 {
		if _, ok := s.authUsers[req.CallerID]; !ok {
			metrics.QueriesTotal.WithLabelValues(string(StatusUnauthorized)).Inc()
			return Response{Status: StatusUnauthorized}
		}
	}

	if !s.checkMembership(ctx, req.CallerID) {
		metrics.QueriesTotal.WithLabelValues(string(StatusNotMember)).Inc()
		return Response{Status: StatusNotMember}
	}

	if s.limiter != nil && !s.limiter.Admit(req.CallerID) {
		metrics.QueriesTotal.WithLabelValues(string(StatusRateLimited)).Inc()
		retry, _ := s.limiter.TimeUntilReset(req.CallerID)
		return Response{
			Status:     StatusRateLimited,
			RetryAfter: retry,
		}
	}

	q := query.Parse(req.Text)

	start := time.Now()
	records, err := s.repo.Search(ctx, q.Terms, q.Kind, q.HasKind, s.cfg.MaxResults)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	resp := Response{Status: StatusServed}
	if err != nil {
		// The store being down must not break the caller-facing flow:
		// serve an empty result and flag it so it is cached briefly.
		s.logger.Warn("search backend failure",
			zap.Int64("caller_id", req.CallerID),
			zap.Error(err),
		)
		resp.Degraded = true
	} else {
		resp.Entries = format.Entries(records)
		resp.Total = len(records)
	}

	resp.CacheTTL = s.cacheTTL(q, len(resp.Entries))

	if s.tracker != nil {
		s.tracker.TrackQuery(req.CallerID)
	}
	metrics.QueriesTotal.WithLabelValues(string(StatusServed)).Inc()

	return resp
}

// checkMembership fails open on checker errors: a flaky membership backend
// must not lock everyone out.
func (s *Service) checkMembership(ctx context.Context, callerID int64) bool {
	if s.membership == nil || s.cfg.AuthChannel == 0 {
		return true
	}

	ok, err := s.membership.IsMember(ctx, s.cfg.AuthChannel, callerID)
	if err != nil {
		s.logger.Warn("membership check failed",
			zap.Int64("caller_id", callerID),
			zap.Error(err),
		)
		return true
	}
	return ok
}

func (s *Service) cacheTTL(q query.Query, entries int) time.Duration {
	if entries == 0 {
		return s.cfg.CacheEmpty
	}
	if q.Terms == "" && !q.HasKind {
		return s.cfg.CacheBrowse
	}
	return s.cfg.CacheDefault
}

// Package mediadex is the embeddable media index: it ingests channel media
// events into a searchable Redis-backed catalogue and answers rate-limited,
// access-controlled search queries over it.
package mediadex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/naga-cloud/mediadex/internal/config"
	"github.com/naga-cloud/mediadex/internal/db"
	dbredis "github.com/naga-cloud/mediadex/internal/db/redis"
	"github.com/naga-cloud/mediadex/internal/logger"
	"github.com/naga-cloud/mediadex/internal/metrics"
	"github.com/naga-cloud/mediadex/internal/ratelimit"
	recordrepo "github.com/naga-cloud/mediadex/internal/repository/record"
	staterepo "github.com/naga-cloud/mediadex/internal/repository/state"
	adminuc "github.com/naga-cloud/mediadex/internal/usecase/admin"
	ingestuc "github.com/naga-cloud/mediadex/internal/usecase/ingest"
	searchuc "github.com/naga-cloud/mediadex/internal/usecase/search"
	"github.com/naga-cloud/mediadex/internal/usecase/stats"
	"github.com/naga-cloud/mediadex/internal/version"
)

const defaultReadinessTimeout = 10 * time.Second

// MembershipChecker verifies that a caller belongs to a channel. Implemented
// by the embedding application against its transport client.
type MembershipChecker interface {
	IsMember(ctx context.Context, channelID, callerID int64) (bool, error)
}

// Client is the mediadex entry point.
type Client struct {
	store     db.Store
	tracker   *stats.Tracker
	ingestSvc *ingestuc.Service
	searchSvc *searchuc.Service
	adminSvc  *adminuc.Service
	logger    *zap.Logger
}

// New creates a mediadex Client, connects to the database and restores the
// persisted counter and ban state.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:    "mediadex:",
		maxResults:   50,
		storeTimeout: 5 * time.Second,
		rateMax:      10,
		rateWindow:   time.Minute,
		autosave:     5 * time.Minute,
		cacheEmpty:   5 * time.Second,
		cacheDefault: 300 * time.Second,
		cacheBrowse:  600 * time.Second,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("mediadex: database address required (use WithRedis)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, err := dbredis.NewStore(dbredis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("mediadex: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("mediadex: database not ready: %w", err)
	}

	return wireClient(store, cfg)
}

// NewFromEnv creates a Client from the YAML config selected by the ENV
// variable (see internal config layout: config/<env>.yaml).
func NewFromEnv() (*Client, error) {
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return nil, fmt.Errorf("mediadex: load config: %w", err)
	}

	log, err := logger.NewLogger(config.GetEnv(), cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("mediadex: build logger: %w", err)
	}

	opts := []Option{
		WithKeyPrefix(cfg.Storage.KeyPrefix),
		WithMaxResults(cfg.Search.MaxResults),
		WithStoreTimeout(time.Duration(cfg.Search.StoreTimeoutSec) * time.Second),
		WithRateLimit(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSec)*time.Second),
		WithAutosaveInterval(time.Duration(cfg.Persistence.AutosaveSec) * time.Second),
		WithCacheWindows(
			time.Duration(cfg.Search.CacheEmptySec)*time.Second,
			time.Duration(cfg.Search.CacheDefaultSec)*time.Second,
			time.Duration(cfg.Search.CacheBrowseSec)*time.Second,
		),
		WithAuthUsers(cfg.Auth.AuthUsers...),
		WithCredentials(cfg.Database.Username, cfg.Database.DB),
		WithRedisAddrs(cfg.Database.Addrs, cfg.Database.Password),
		WithLogger(log),
	}
	if cfg.Search.CaptionFilter {
		opts = append(opts, WithCaptionSearch())
	}

	return New(opts...)
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	ctx := context.Background()

	repo := recordrepo.New(store, cfg.keyPrefix, cfg.captionSearch, cfg.storeTimeout)
	if err := repo.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("mediadex: ensure index: %w", err)
	}

	tracker := stats.New(staterepo.New(store, cfg.keyPrefix), cfg.logger)
	if err := tracker.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("mediadex: restore state: %w", err)
	}
	tracker.StartAutosave(cfg.autosave)

	limiter := ratelimit.New(cfg.rateMax, cfg.rateWindow)

	searchSvc := searchuc.New(repo, limiter, tracker, cfg.membership, searchuc.Config{
		AuthUsers:    cfg.authUsers,
		AuthChannel:  cfg.authChannel,
		MaxResults:   cfg.maxResults,
		CacheEmpty:   cfg.cacheEmpty,
		CacheDefault: cfg.cacheDefault,
		CacheBrowse:  cfg.cacheBrowse,
	}, cfg.logger)

	cfg.logger.Info("mediadex client ready",
		zap.String("version", version.Version),
		zap.String("key_prefix", cfg.keyPrefix),
		zap.Bool("caption_search", cfg.captionSearch),
	)

	return &Client{
		store:     store,
		tracker:   tracker,
		ingestSvc: ingestuc.New(repo, tracker, cfg.logger),
		searchSvc: searchSvc,
		adminSvc:  adminuc.New(repo, tracker, cfg.logger),
		logger:    cfg.logger,
	}, nil
}

// RegisterMetrics registers mediadex Prometheus metrics with the default
// registry. Call once from the application entry point when scraping is
// wanted.
func RegisterMetrics() {
	metrics.Register()
}

// Close flushes pending state and releases all resources.
func (c *Client) Close(ctx context.Context) {
	if c.tracker != nil {
		c.tracker.Stop(ctx)
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ingest indexes one media event. Events without media and already-stored
// records are normal outcomes, not errors.
func (c *Client) Ingest(ctx context.Context, ev Event) (IngestOutcome, error) {
	return c.ingestSvc.Index(ctx, ev)
}

// Search runs a caller's query through the admission pipeline and returns
// the outcome.
func (c *Client) Search(ctx context.Context, callerID int64, text string) SearchResponse {
	return c.searchSvc.Handle(ctx, searchuc.Request{CallerID: callerID, Text: text})
}

// Ban puts a caller on the ban list. Takes effect immediately and survives
// restarts.
func (c *Client) Ban(ctx context.Context, callerID int64) error {
	return c.adminSvc.Ban(ctx, callerID)
}

// Unban removes a caller from the ban list.
func (c *Client) Unban(ctx context.Context, callerID int64) error {
	return c.adminSvc.Unban(ctx, callerID)
}

// IsBanned reports whether the caller is on the ban list.
func (c *Client) IsBanned(callerID int64) bool {
	return c.tracker.IsBanned(callerID)
}

// ResetCounters zeroes all usage counters. The ban list stays intact.
func (c *Client) ResetCounters(ctx context.Context) error {
	return c.adminSvc.ResetCounters(ctx)
}

// DeleteByLocator removes the record identified by its transport locator.
// Returns false when no record matches.
func (c *Client) DeleteByLocator(ctx context.Context, locator string) (bool, error) {
	return c.adminSvc.DeleteByLocator(ctx, locator)
}

// Totals returns the aggregate index and usage view.
func (c *Client) Totals(ctx context.Context) (Totals, error) {
	return c.adminSvc.Totals(ctx)
}

// CountsByKind returns per-kind record counts.
func (c *Client) CountsByKind(ctx context.Context) (map[string]int, error) {
	return c.adminSvc.CountsByKind(ctx)
}

// CountsByOrigin returns per-origin-channel record counts.
func (c *Client) CountsByOrigin(ctx context.Context) (map[string]int, error) {
	return c.adminSvc.CountsByOrigin(ctx)
}

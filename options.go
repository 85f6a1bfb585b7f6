package mediadex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix     string
	captionSearch bool
	maxResults    int
	storeTimeout  time.Duration

	rateMax    int
	rateWindow time.Duration

	autosave time.Duration

	cacheEmpty   time.Duration
	cacheDefault time.Duration
	cacheBrowse  time.Duration

	authUsers   []int64
	authChannel int64
	membership  MembershipChecker

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisAddrs configures the client with multiple Redis addresses, for
// cluster or sentinel deployments.
func WithRedisAddrs(addrs []string, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	})
}

// WithCredentials sets the Redis username and logical database.
func WithCredentials(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithKeyPrefix sets the key namespace. Default: "mediadex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCaptionSearch makes free-text queries match captions as well as file
// names. Fixed for the lifetime of the client.
func WithCaptionSearch() Option {
	return optionFunc(func(c *clientConfig) {
		c.captionSearch = true
	})
}

// WithMaxResults caps how many records a single query returns. Default: 50.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithStoreTimeout bounds every storage backend call. Default: 5s.
func WithStoreTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.storeTimeout = d
	})
}

// WithRateLimit allows max queries per window per caller.
// Default: 10 per minute.
func WithRateLimit(max int, window time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateMax = max
		c.rateWindow = window
	})
}

// WithAutosaveInterval sets how often dirty counter state is flushed.
// Zero disables the autosave loop. Default: 5 minutes.
func WithAutosaveInterval(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.autosave = d
	})
}

// WithCacheWindows sets the cache advice for empty, regular and browse
// responses. Defaults: 5s, 300s, 600s.
func WithCacheWindows(empty, regular, browse time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheEmpty = empty
		c.cacheDefault = regular
		c.cacheBrowse = browse
	})
}

// WithAuthUsers restricts search access to the listed callers.
// An empty list means open access.
func WithAuthUsers(ids ...int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.authUsers = append(c.authUsers, ids...)
	})
}

// WithAuthChannel requires callers to be members of the given channel,
// verified through the checker. Checker errors fail open.
func WithAuthChannel(channelID int64, checker MembershipChecker) Option {
	return optionFunc(func(c *clientConfig) {
		c.authChannel = channelID
		c.membership = checker
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

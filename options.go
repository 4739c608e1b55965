package melodex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the embedded client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	password string

	cacheEnabled bool
	localEntries int
	localTTL     time.Duration

	search SearchConfig

	logger *zap.Logger
}

// SearchConfig tunes the embedded search engine. Zero values fall back
// to the engine defaults.
type SearchConfig struct {
	MaxCandidatesPerKind int
	RetrievalBudget      time.Duration
	MaxSuggestions       int
	TrendingTerms        int
	HistoryLimit         int
	MinMatchScore        float64
	FuzzyRelevanceWeight float64
}

// WithRedis configures the client to connect to a Redis instance or cluster.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
	}
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) {
		c.password = password
	}
}

// WithCache enables the distributed response cache. localEntries bounds
// the in-process tier; localTTL its entry lifetime.
func WithCache(localEntries int, localTTL time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheEnabled = true
		c.localEntries = localEntries
		c.localTTL = localTTL
	}
}

// WithSearchConfig overrides the engine defaults.
func WithSearchConfig(cfg SearchConfig) Option {
	return func(c *clientConfig) {
		c.search = cfg
	}
}

// WithLogger sets the client logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

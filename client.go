// Package melodex embeds the music search engine as an in-process
// client: catalog retrieval, fuzzy matching, ranking, and caching over
// a Redis-backed catalog, without the HTTP layer.
package melodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/melodex/melodex/internal/cache"
	"github.com/melodex/melodex/internal/db"
	dbRedis "github.com/melodex/melodex/internal/db/redis"
	"github.com/melodex/melodex/internal/fuzzy"
	"github.com/melodex/melodex/internal/ranking"
	catalogrepo "github.com/melodex/melodex/internal/repository/catalog"
	historyrepo "github.com/melodex/melodex/internal/repository/history"
	prefsrepo "github.com/melodex/melodex/internal/repository/prefs"
	"github.com/melodex/melodex/internal/typo"
	searchuc "github.com/melodex/melodex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the melodex SDK entry point.
type Client struct {
	store     db.Store
	searchSvc *searchuc.Service
}

// New creates a melodex Client and connects to the catalog store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("melodex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("melodex: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("melodex: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	ttls := cache.DefaultTTLs()
	var tiered *cache.Tiered
	if cfg.cacheEnabled {
		tiered = cache.New(store, cfg.localEntries, cfg.localTTL, cfg.logger)
	} else {
		tiered = cache.New(nil, cfg.localEntries, cfg.localTTL, cfg.logger)
	}

	catRepo := catalogrepo.New(store)
	prefRepo := prefsrepo.New(store, tiered, ttls.Short)
	histSink := historyrepo.New(store, cfg.search.HistoryLimit)

	matcher := fuzzy.New(fuzzy.Config{MinScore: cfg.search.MinMatchScore})
	ranker := ranking.New(ranking.Config{})
	corrector := typo.New(catRepo, typo.Config{})

	searchSvc := searchuc.New(
		catRepo, prefRepo, histSink, tiered, corrector, matcher, ranker,
		searchuc.Config{
			MaxCandidatesPerKind: cfg.search.MaxCandidatesPerKind,
			RetrievalBudget:      cfg.search.RetrievalBudget,
			MaxSuggestions:       cfg.search.MaxSuggestions,
			TrendingTerms:        cfg.search.TrendingTerms,
			FuzzyRelevanceWeight: cfg.search.FuzzyRelevanceWeight,
			TTLs:                 ttls,
		},
		cfg.logger,
	)

	return &Client{store: store, searchSvc: searchSvc}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks catalog store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search executes a full catalog search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (Response, error) {
	q, err := req.toQuery()
	if err != nil {
		return Response{}, err
	}
	resp, err := c.searchSvc.Search(ctx, q)
	if err != nil {
		return Response{}, err
	}
	return responseFromInternal(resp), nil
}

// Autocomplete returns prefix completions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, partial, userID string, limit int) ([]Suggestion, error) {
	out, err := c.searchSvc.Autocomplete(ctx, partial, userID, limit)
	if err != nil {
		return nil, err
	}
	return suggestionsFromInternal(out), nil
}

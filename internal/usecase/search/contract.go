package search

import (
	"context"
	"time"

	"github.com/melodex/melodex/internal/cache"
	"github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/domain/prefs"
	"github.com/melodex/melodex/internal/typo"
)

// CatalogStore defines the retrieval contract over the music catalog.
type CatalogStore interface {
	FindCandidatesByText(ctx context.Context, kind catalog.Kind, term string, limit int) ([]catalog.Entity, error)
}

// PrefReader loads user preference profiles. A nil profile means
// anonymous or profile-less: ranking proceeds without personalization.
type PrefReader interface {
	Get(ctx context.Context, userID string) (*prefs.Preferences, error)
}

// HistorySink records search activity and serves the trending signal.
type HistorySink interface {
	RecordSearch(ctx context.Context, userID, term string) error
	RecordAnalytics(ctx context.Context, term string) error
	TopTerms(ctx context.Context, n int) ([]string, error)
	RecentSearches(ctx context.Context, userID string, n int) ([]string, error)
}

// Cache is the response cache contract.
type Cache interface {
	Get(ctx context.Context, key string, ttl time.Duration, opts cache.Options, fetch cache.Fetcher) ([]byte, error)
}

// Corrector proposes spelling corrections for sparse results.
type Corrector interface {
	GenerateSuggestions(ctx context.Context, term string, limit int) ([]typo.Correction, error)
}

// Package history records search activity: per-user recent searches
// and the global trending-terms leaderboard. Writes are best-effort
// side channels of a search, never on its critical path.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/melodex/melodex/internal/db"
	"github.com/melodex/melodex/internal/domain"
)

// store is the consumer interface for activity writes and reads (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZIncrBy(ctx context.Context, key, member string, delta float64) error
	ZTop(ctx context.Context, key string, n int) ([]db.ScoredMember, error)
	IncrBy(ctx context.Context, key string, val int64) error
}

const (
	trendingKey = domain.KeySearch + domain.OpTrending + "terms"
	statsKey    = domain.KeySearch + "stats:queries"
)

// Sink writes and reads search activity.
type Sink struct {
	store store
	limit int64
}

// New creates a Sink. limit bounds each user's history list.
func New(s store, limit int) *Sink {
	if limit <= 0 {
		limit = 50
	}
	return &Sink{store: s, limit: int64(limit)}
}

// RecordSearch prepends term to the user's history and trims the list
// to the configured limit. Anonymous searches leave no history.
func (s *Sink) RecordSearch(ctx context.Context, userID, term string) error {
	if userID == "" || term == "" {
		return nil
	}
	key := domain.KeyUser + domain.OpHistory + userID
	if err := s.store.LPush(ctx, key, term); err != nil {
		return fmt.Errorf("record search for %s: %w", userID, err)
	}
	if err := s.store.LTrim(ctx, key, 0, s.limit-1); err != nil {
		return fmt.Errorf("trim history for %s: %w", userID, err)
	}
	return nil
}

// RecordAnalytics bumps the term on the trending leaderboard and the
// global query counter. Zero-result searches still count: they drive
// typo-correction tuning.
func (s *Sink) RecordAnalytics(ctx context.Context, term string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	if err := s.store.ZIncrBy(ctx, trendingKey, term, 1); err != nil {
		return fmt.Errorf("record trending term: %w", err)
	}
	if err := s.store.IncrBy(ctx, statsKey, 1); err != nil {
		return fmt.Errorf("count query: %w", err)
	}
	return nil
}

// TopTerms returns the n most searched terms, most popular first.
func (s *Sink) TopTerms(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := s.store.ZTop(ctx, trendingKey, n)
	if err != nil {
		return nil, fmt.Errorf("top terms: %w", err)
	}
	terms := make([]string, 0, len(members))
	for _, m := range members {
		terms = append(terms, m.Member)
	}
	return terms, nil
}

// RecentSearches returns the user's latest n search terms, newest first.
func (s *Sink) RecentSearches(ctx context.Context, userID string, n int) ([]string, error) {
	if userID == "" || n <= 0 {
		return nil, nil
	}
	terms, err := s.store.LRange(ctx, domain.KeyUser+domain.OpHistory+userID, 0, int64(n)-1)
	if err != nil {
		return nil, fmt.Errorf("recent searches for %s: %w", userID, err)
	}
	return terms, nil
}

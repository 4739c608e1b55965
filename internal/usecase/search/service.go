// Package search is the retrieval-and-ranking orchestrator: it fans
// candidate retrieval out per kind, scores and ranks the pool, attaches
// suggestions, and serves repeated queries from the shared cache.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/melodex/melodex/internal/cache"
	"github.com/melodex/melodex/internal/domain"
	"github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/domain/prefs"
	"github.com/melodex/melodex/internal/domain/search/query"
	"github.com/melodex/melodex/internal/domain/search/result"
	"github.com/melodex/melodex/internal/domain/search/suggest"
	"github.com/melodex/melodex/internal/fuzzy"
	"github.com/melodex/melodex/internal/metrics"
	"github.com/melodex/melodex/internal/ranking"
)

const (
	// minPerKindQuota keeps small pages from starving the scoring pool.
	minPerKindQuota = 10
	// defaultAutocompleteLimit bounds prefix completions per call.
	defaultAutocompleteLimit = 10
	maxAutocompleteLimit     = 25
	// activityTimeout bounds the detached history/analytics write.
	activityTimeout = 5 * time.Second
)

// Config holds orchestrator bounds and the cache TTL tiers.
type Config struct {
	MaxCandidatesPerKind int
	RetrievalBudget      time.Duration
	MaxSuggestions       int
	TrendingTerms        int
	// FuzzyRelevanceWeight scales the fuzzy match score added for
	// candidates with no substring relevance, so near-miss spellings
	// outrank pure popularity.
	FuzzyRelevanceWeight float64
	TTLs                 cache.TTLs
}

// DefaultConfig returns the default orchestrator bounds.
func DefaultConfig() Config {
	return Config{
		MaxCandidatesPerKind: 50,
		RetrievalBudget:      800 * time.Millisecond,
		MaxSuggestions:       5,
		TrendingTerms:        10,
		FuzzyRelevanceWeight: 0.6,
		TTLs:                 cache.DefaultTTLs(),
	}
}

// Service orchestrates search across retrieval, matching, ranking,
// caching, and suggestion generation.
type Service struct {
	catalog   CatalogStore
	prefs     PrefReader
	history   HistorySink
	cache     Cache
	corrector Corrector
	matcher   *fuzzy.Matcher
	ranker    *ranking.Ranker
	cfg       Config
	logger    *zap.Logger
}

// New creates a search service; zero-valued config fields get defaults.
func New(
	cat CatalogStore, pr PrefReader, hist HistorySink, c Cache, corr Corrector,
	matcher *fuzzy.Matcher, ranker *ranking.Ranker, cfg Config, logger *zap.Logger,
) *Service {
	def := DefaultConfig()
	if cfg.MaxCandidatesPerKind <= 0 {
		cfg.MaxCandidatesPerKind = def.MaxCandidatesPerKind
	}
	if cfg.RetrievalBudget <= 0 {
		cfg.RetrievalBudget = def.RetrievalBudget
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	if cfg.TrendingTerms <= 0 {
		cfg.TrendingTerms = def.TrendingTerms
	}
	if cfg.FuzzyRelevanceWeight <= 0 {
		cfg.FuzzyRelevanceWeight = def.FuzzyRelevanceWeight
	}
	if cfg.TTLs == (cache.TTLs{}) {
		cfg.TTLs = def.TTLs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog: cat, prefs: pr, history: hist, cache: c, corrector: corr,
		matcher: matcher, ranker: ranker, cfg: cfg, logger: logger,
	}
}

// Search executes a full catalog search. The ranked item content is
// shared through the cache for cacheable queries; SearchID and
// ProcessingTimeMs are stamped fresh per call either way.
func (s *Service) Search(ctx context.Context, q query.Query) (result.Response, error) {
	start := time.Now()
	searchID := uuid.NewString()

	if q.Text() == "" {
		resp := result.Empty(searchID)
		resp.ProcessingTimeMs = time.Since(start).Milliseconds()
		return resp, nil
	}

	p, err := s.prefs.Get(ctx, q.UserID())
	if err != nil {
		s.logger.Warn("preference lookup failed, ranking without personalization",
			zap.String("userId", q.UserID()), zap.Error(err))
		p = nil
	}

	var resp result.Response
	if q.Cacheable() && s.cache != nil {
		raw, err := s.cache.Get(ctx, q.CacheKey(), s.cfg.TTLs.Medium,
			cache.Options{StampedeProtection: true},
			func(ctx context.Context) ([]byte, error) {
				content, err := s.execute(ctx, q, p)
				if err != nil {
					return nil, err
				}
				return json.Marshal(content)
			})
		if err != nil {
			return result.Response{}, err
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return result.Response{}, fmt.Errorf("decode cached response: %w", err)
		}
	} else {
		if resp, err = s.execute(ctx, q, p); err != nil {
			return result.Response{}, err
		}
	}

	resp.SearchID = searchID
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()

	s.recordActivity(q)
	return resp, nil
}

// execute runs the uncached retrieval pipeline and assembles the
// shareable part of the envelope.
func (s *Service) execute(ctx context.Context, q query.Query, p *prefs.Preferences) (result.Response, error) {
	rctx, cancel := context.WithTimeout(ctx, s.cfg.RetrievalBudget)
	defer cancel()

	kinds := q.Kinds()
	quota := (q.Offset() + q.Limit()) / len(kinds)
	if quota < minPerKindQuota {
		quota = minPerKindQuota
	}
	if quota > s.cfg.MaxCandidatesPerKind {
		quota = s.cfg.MaxCandidatesPerKind
	}

	var (
		mu    sync.Mutex
		items []result.Item
	)
	g, gctx := errgroup.WithContext(rctx)
	for _, kind := range kinds {
		kind := kind
		g.Go(func() error {
			// A failed or slow kind degrades to empty, never fails
			// the search.
			cands, err := s.catalog.FindCandidatesByText(gctx, kind, q.Normalized(), quota)
			if err != nil {
				metrics.DegradedRetrieval(string(kind))
				s.logger.Warn("candidate retrieval degraded",
					zap.String("kind", string(kind)), zap.Error(err))
				return nil
			}
			scored := s.scoreCandidates(q, cands, p)
			mu.Lock()
			items = append(items, scored...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	result.Sort(items)
	total := len(items)
	paged := result.Paginate(items, q.Limit(), q.Offset())

	return result.Response{
		Items:           paged,
		TotalCount:      total,
		HasMore:         q.Offset()+q.Limit() < total,
		Suggestions:     s.suggestions(ctx, q, items),
		RelatedSearches: s.related(ctx, q),
	}, nil
}

// scoreCandidates filters candidates against structural filters and the
// fuzzy threshold, then assigns composite relevance scores.
func (s *Service) scoreCandidates(q query.Query, cands []catalog.Entity, p *prefs.Preferences) []result.Item {
	term := q.Normalized()
	out := make([]result.Item, 0, len(cands))
	for _, e := range cands {
		if !matchesFilters(e, q.Filters(), p) {
			continue
		}
		fields := e.SearchFields()
		mscore, mkind, matched := s.matcher.MatchFields(term, fields)
		if mkind == fuzzy.MatchNone {
			continue
		}

		score := s.ranker.Score(term, fields, e.Genre(), e.PlayCount(), p)
		if mkind == fuzzy.MatchFuzzy {
			score += s.cfg.FuzzyRelevanceWeight * mscore
		}
		out = append(out, result.FromEntity(e, score, matched, highlights(term, fields, matched)))
	}
	return out
}

// matchesFilters applies the structural filters and the user's
// explicit-content setting to a candidate.
func matchesFilters(e catalog.Entity, f query.Filters, p *prefs.Preferences) bool {
	if len(f.Genres) > 0 && !genreAllowed(e, f.Genres) {
		return false
	}
	if !f.Popularity.Contains(float64(e.PlayCount())) {
		return false
	}

	switch v := e.(type) {
	case *catalog.Song:
		if !f.YearRange.Contains(float64(v.Year())) ||
			!f.Duration.Contains(float64(v.DurationSec())) ||
			!f.Energy.Contains(v.Features().Energy) ||
			!f.Danceability.Contains(v.Features().Danceability) {
			return false
		}
		if f.ExplicitOnly != nil && *f.ExplicitOnly != v.Explicit() {
			return false
		}
		if p != nil && !p.AllowExplicit() && v.Explicit() {
			return false
		}
	case *catalog.Artist:
		if f.VerifiedOnly && !v.Verified() {
			return false
		}
	case *catalog.Album:
		if !f.YearRange.Contains(float64(v.Year())) {
			return false
		}
	}
	return true
}

func genreAllowed(e catalog.Entity, genres []string) bool {
	candidate := []string{e.Genre()}
	if a, ok := e.(*catalog.Artist); ok {
		candidate = a.Genres()
	}
	for _, want := range genres {
		for _, have := range candidate {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

// suggestions assembles the suggestion list: completions from the
// ranked pool always, spelling corrections only when results are
// sparse, recent personal searches for signed-in users.
func (s *Service) suggestions(ctx context.Context, q query.Query, ranked []result.Item) []suggest.Suggestion {
	term := q.Normalized()
	out := make([]suggest.Suggestion, 0, s.cfg.MaxSuggestions)

	for _, it := range ranked {
		name := itemName(it)
		lower := strings.ToLower(name)
		if lower == term || !strings.HasPrefix(lower, term) {
			continue
		}
		out = append(out, suggest.Suggestion{
			Text: name,
			Kind: suggest.Completion,
			Metadata: map[string]string{
				"sourceId":   it.ID,
				"sourceKind": string(it.Kind),
			},
		})
	}

	if len(ranked) < q.Limit()/2 && s.corrector != nil {
		metrics.TypoCorrection()
		corrections, err := s.corrector.GenerateSuggestions(ctx, term, s.cfg.MaxSuggestions)
		if err != nil {
			s.logger.Warn("typo correction failed", zap.String("term", term), zap.Error(err))
		}
		for _, c := range corrections {
			out = append(out, suggest.Suggestion{
				Text:     c.Word,
				Kind:     suggest.Correction,
				Metadata: map[string]string{"distance": strconv.Itoa(c.Distance)},
			})
		}
	}

	if userID := q.UserID(); userID != "" {
		recent, err := s.history.RecentSearches(ctx, userID, 3)
		if err != nil {
			s.logger.Warn("recent searches lookup failed", zap.String("userId", userID), zap.Error(err))
		}
		for _, r := range recent {
			if strings.EqualFold(r, term) {
				continue
			}
			out = append(out, suggest.Suggestion{Text: r, Kind: suggest.Personalized})
		}
	}

	return suggest.Dedupe(out, s.cfg.MaxSuggestions)
}

// related returns trending terms other than the current query.
func (s *Service) related(ctx context.Context, q query.Query) []string {
	terms, err := s.history.TopTerms(ctx, s.cfg.TrendingTerms)
	if err != nil {
		s.logger.Warn("trending terms lookup failed", zap.Error(err))
		return []string{}
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.EqualFold(t, q.Normalized()) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// recordActivity writes history and analytics off the request path.
func (s *Service) recordActivity(q query.Query) {
	term := q.Normalized()
	userID := q.UserID()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("activity recording panicked", zap.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), activityTimeout)
		defer cancel()
		if err := s.history.RecordSearch(ctx, userID, term); err != nil {
			s.logger.Warn("record search history failed", zap.Error(err))
		}
		if err := s.history.RecordAnalytics(ctx, term); err != nil {
			s.logger.Warn("record search analytics failed", zap.Error(err))
		}
	}()
}

// Autocomplete returns prefix completions for a partial query. Inputs
// under two runes return empty; the corrector is never involved.
func (s *Service) Autocomplete(ctx context.Context, partial, userID string, limit int) ([]suggest.Suggestion, error) {
	partial = strings.TrimSpace(partial)
	if len([]rune(partial)) < 2 {
		return []suggest.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = defaultAutocompleteLimit
	}
	if limit > maxAutocompleteLimit {
		limit = maxAutocompleteLimit
	}
	term := strings.ToLower(partial)

	fetch := func(ctx context.Context) ([]byte, error) {
		sugg, err := s.completeFromCatalog(ctx, term, limit)
		if err != nil {
			return nil, err
		}
		return json.Marshal(sugg)
	}

	var (
		raw []byte
		err error
	)
	if s.cache != nil {
		key := domain.KeySearch + domain.OpAutocomplete + term + ":" + strconv.Itoa(limit)
		raw, err = s.cache.Get(ctx, key, s.cfg.TTLs.Short,
			cache.Options{UseLocal: true, StampedeProtection: true}, fetch)
	} else {
		raw, err = fetch(ctx)
	}
	if err != nil {
		return nil, err
	}

	var out []suggest.Suggestion
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode completions: %w", err)
	}

	// Personal history completions are user-scoped and stay out of the
	// shared cache entry.
	if userID != "" {
		recent, err := s.history.RecentSearches(ctx, userID, limit)
		if err != nil {
			s.logger.Warn("recent searches lookup failed", zap.String("userId", userID), zap.Error(err))
		}
		var personal []suggest.Suggestion
		for _, r := range recent {
			if strings.HasPrefix(strings.ToLower(r), term) {
				personal = append(personal, suggest.Suggestion{
					Text: r, Kind: suggest.Completion,
					Metadata: map[string]string{"source": "history"},
				})
			}
		}
		out = append(personal, out...)
	}

	return suggest.Dedupe(out, limit), nil
}

// completeFromCatalog collects catalog names starting with term,
// ordered by popularity.
func (s *Service) completeFromCatalog(ctx context.Context, term string, limit int) ([]suggest.Suggestion, error) {
	type completion struct {
		name       string
		kind       catalog.Kind
		id         string
		popularity int64
	}
	var pool []completion

	for _, kind := range catalog.Searchable() {
		cands, err := s.catalog.FindCandidatesByText(ctx, kind, term, limit)
		if err != nil {
			metrics.DegradedRetrieval(string(kind))
			s.logger.Warn("completion retrieval degraded",
				zap.String("kind", string(kind)), zap.Error(err))
			continue
		}
		for _, e := range cands {
			if !strings.HasPrefix(strings.ToLower(e.Name()), term) {
				continue
			}
			pool = append(pool, completion{
				name: e.Name(), kind: e.Kind(), id: e.ID(), popularity: e.PlayCount(),
			})
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].popularity > pool[j].popularity
	})

	out := make([]suggest.Suggestion, 0, len(pool))
	for _, c := range pool {
		out = append(out, suggest.Suggestion{
			Text: c.name,
			Kind: suggest.Completion,
			Metadata: map[string]string{
				"sourceId":   c.id,
				"sourceKind": string(c.kind),
			},
		})
	}
	return suggest.Dedupe(out, limit), nil
}

func itemName(it result.Item) string {
	switch {
	case it.Song != nil:
		return it.Song.Title
	case it.Artist != nil:
		return it.Artist.Name
	case it.Album != nil:
		return it.Album.Title
	case it.Playlist != nil:
		return it.Playlist.Name
	case it.User != nil:
		return it.User.DisplayName
	}
	return ""
}

// highlights wraps the first occurrence of term in each matched field.
// Fuzzy matches carry no occurrence and produce no highlight.
func highlights(term string, fields map[string]string, matched []string) map[string]string {
	out := make(map[string]string, len(matched))
	for _, name := range matched {
		value := fields[name]
		start, end := foldIndex(value, term)
		if start < 0 {
			continue
		}
		out[name] = value[:start] + "<em>" + value[start:end] + "</em>" + value[end:]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// foldIndex returns the byte bounds in value of the first occurrence of
// the lowercased term, or (-1, -1). The scan folds rune by rune against
// value itself: lowercasing can change a rune's UTF-8 width, so offsets
// into a lowered copy do not index value safely.
func foldIndex(value, term string) (int, int) {
	if term == "" {
		return -1, -1
	}
	for start := range value {
		i := start
		ok := true
		for _, tr := range term {
			r, size := utf8.DecodeRuneInString(value[i:])
			if size == 0 || unicode.ToLower(r) != tr {
				ok = false
				break
			}
			i += size
		}
		if ok {
			return start, i
		}
	}
	return -1, -1
}

package query

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/melodex/melodex/internal/domain"
	"github.com/melodex/melodex/internal/domain/catalog"
)

// Query parameter limits.
const (
	// MaxTextLength bounds the query text to keep matching cost and
	// abuse surface bounded.
	MaxTextLength = 100
	DefaultLimit  = 20
	MaxLimit      = 100
)

// Query is a validated search request.
type Query struct {
	text    string
	kinds   []catalog.Kind
	filters Filters
	userID  string
	context Context
	limit   int
	offset  int
}

// New validates and normalizes search parameters. Text is trimmed;
// oversized text is rejected with domain.ErrInvalidQuery. An empty kind
// set means all searchable kinds. Defaults: context=general, limit=20.
func New(
	text string,
	kinds []catalog.Kind,
	filters Filters,
	userID string,
	sctx Context,
	limit, offset int,
) (Query, error) {
	text = strings.TrimSpace(text)
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: text exceeds %d characters", domain.ErrInvalidQuery, MaxTextLength)
	}
	if sctx == "" {
		sctx = General
	}
	if !sctx.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown context %q", domain.ErrInvalidQuery, sctx)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		return Query{}, fmt.Errorf("%w: negative offset", domain.ErrInvalidQuery)
	}
	if len(kinds) == 0 {
		kinds = catalog.Searchable()
	}
	for _, k := range kinds {
		if !k.IsValid() {
			return Query{}, fmt.Errorf("%w: unknown result kind %q", domain.ErrInvalidQuery, k)
		}
	}

	return Query{
		text:    text,
		kinds:   kinds,
		filters: filters,
		userID:  userID,
		context: sctx,
		limit:   limit,
		offset:  offset,
	}, nil
}

// Text returns the trimmed query text.
func (q Query) Text() string { return q.text }

// Normalized returns the case-folded query text used for matching and
// cache keys.
func (q Query) Normalized() string { return strings.ToLower(q.text) }

// Words splits the normalized text into words.
func (q Query) Words() []string { return strings.Fields(q.Normalized()) }

// Kinds returns the requested result kinds.
func (q Query) Kinds() []catalog.Kind { return q.kinds }

// Filters returns the structural filters.
func (q Query) Filters() Filters { return q.filters }

// UserID returns the requesting user, or "" for anonymous searches.
func (q Query) UserID() string { return q.userID }

// Context returns the originating search surface.
func (q Query) Context() Context { return q.context }

// Limit returns the page size.
func (q Query) Limit() int { return q.limit }

// Offset returns the pagination offset.
func (q Query) Offset() int { return q.offset }

// Cacheable reports whether the response content may be shared across
// callers. User-scoped and heavily filtered queries are not cached: the
// hit rate would not pay for the key churn.
func (q Query) Cacheable() bool {
	return q.userID == "" && !q.filters.Narrow()
}

// CacheKey returns the deterministic shared-cache key for the query
// content, e.g. "search:full:159ab3f0c1d2e4a5". Pagination is part of
// the key; user identity and envelope metadata are not.
func (q Query) CacheKey() string {
	return domain.KeySearch + domain.OpFull + q.paramHash()
}

func (q Query) paramHash() string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(q.Normalized()))
	_, _ = h.Write([]byte{0})

	kinds := make([]string, len(q.kinds))
	for i, k := range q.kinds {
		kinds[i] = string(k)
	}
	sort.Strings(kinds)
	_, _ = h.Write([]byte(strings.Join(kinds, ",")))
	_, _ = h.Write([]byte{0})

	genres := append([]string(nil), q.filters.Genres...)
	sort.Strings(genres)
	_, _ = h.Write([]byte(strings.Join(genres, ",")))

	for _, r := range []Range{
		q.filters.YearRange, q.filters.Duration, q.filters.Popularity,
		q.filters.Energy, q.filters.Danceability,
	} {
		_, _ = fmt.Fprintf(h, "|%g:%g", r.Min, r.Max)
	}
	if q.filters.ExplicitOnly != nil {
		_, _ = fmt.Fprintf(h, "|e:%t", *q.filters.ExplicitOnly)
	}
	_, _ = fmt.Fprintf(h, "|v:%t|%d:%d", q.filters.VerifiedOnly, q.limit, q.offset)

	return strconv.FormatUint(h.Sum64(), 16)
}

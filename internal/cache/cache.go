// Package cache implements the two-tier search cache: a bounded
// in-process LRU for small, hot lookups and a Redis tier shared across
// processes. Misses under stampede protection collapse into a single
// in-flight fetch per key. A cache failure is never an error for the
// caller: the fetcher is the fallback path.
package cache

import (
	"context"
	"path"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/melodex/melodex/internal/db"
	"github.com/melodex/melodex/internal/metrics"
)

// store is the consumer interface over the distributed tier (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

// TTLs are the named expiration tiers. The producing operation picks
// the tier; callers never override it, keeping invalidation predictable.
type TTLs struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// DefaultTTLs returns the default expiration tiers.
func DefaultTTLs() TTLs {
	return TTLs{
		Short:  1 * time.Minute,
		Medium: 5 * time.Minute,
		Long:   1 * time.Hour,
	}
}

// Options select per-call cache behavior.
type Options struct {
	// UseLocal admits the entry into the in-process tier. Only small,
	// frequently repeated values belong there; large list results
	// would evict everything else.
	UseLocal bool
	// StampedeProtection collapses concurrent misses for the same key
	// into one fetch.
	StampedeProtection bool
}

// Fetcher computes the value on a cache miss. It doubles as the direct
// fallback path when the cache is unavailable.
type Fetcher func(ctx context.Context) ([]byte, error)

// Tiered is the two-tier cache. A nil distributed store puts the cache
// in disabled mode: every Get runs the fetcher, writes go nowhere.
type Tiered struct {
	store  store
	local  *expirable.LRU[string, []byte]
	flight singleflight.Group
	logger *zap.Logger
}

const defaultLocalEntries = 2048

// New creates a Tiered cache. store may be nil (cache disabled).
// localTTL bounds the in-process tier; localEntries <= 0 uses the
// default size.
func New(s store, localEntries int, localTTL time.Duration, logger *zap.Logger) *Tiered {
	if localEntries <= 0 {
		localEntries = defaultLocalEntries
	}
	if localTTL <= 0 {
		localTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tiered{
		store:  s,
		local:  expirable.NewLRU[string, []byte](localEntries, nil, localTTL),
		logger: logger,
	}
}

// Get returns the cached value for key or runs fetch on a miss, writing
// the result back to both tiers subject to opts. Cache-layer errors are
// logged and absorbed: the only error a caller sees is the fetcher's
// own, and under stampede protection that error propagates to every
// waiter of the shared flight.
func (t *Tiered) Get(ctx context.Context, key string, ttl time.Duration, opts Options, fetch Fetcher) ([]byte, error) {
	if opts.UseLocal {
		if v, ok := t.local.Get(key); ok {
			metrics.CacheHit("local")
			return v, nil
		}
	}

	if t.store != nil {
		v, err := t.store.Get(ctx, key)
		switch {
		case err == nil:
			metrics.CacheHit("distributed")
			if opts.UseLocal {
				t.local.Add(key, v)
			}
			return v, nil
		case err != db.ErrKeyNotFound:
			t.logger.Warn("cache read failed, falling back to fetch",
				zap.String("key", key), zap.Error(err))
		}
	}
	metrics.CacheMiss()

	if !opts.StampedeProtection {
		return t.fetchAndStore(ctx, key, ttl, opts, fetch)
	}

	v, err, shared := t.flight.Do(key, func() (any, error) {
		// Forget unconditionally so a failed fetch cannot wedge the
		// key: the next caller starts a fresh flight.
		defer t.flight.Forget(key)
		return t.fetchAndStore(ctx, key, ttl, opts, fetch)
	})
	if shared {
		metrics.SharedFetch()
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (t *Tiered) fetchAndStore(ctx context.Context, key string, ttl time.Duration, opts Options, fetch Fetcher) ([]byte, error) {
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	t.Set(ctx, key, v, ttl, opts)
	return v, nil
}

// Set writes a value to both tiers subject to opts. Failures are logged
// and absorbed.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration, opts Options) {
	if opts.UseLocal {
		t.local.Add(key, value)
	}
	if t.store == nil {
		return
	}
	if err := t.store.SetWithTTL(ctx, key, value, ttl); err != nil {
		t.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// GetBatch returns cached values for keys, fetching all misses in one
// call and writing them back. Partial cache failures degrade to larger
// miss sets, never to errors.
func (t *Tiered) GetBatch(
	ctx context.Context, keys []string, ttl time.Duration, opts Options,
	fetchMissing func(ctx context.Context, missing []string) (map[string][]byte, error),
) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	var missing []string

	for _, key := range keys {
		if opts.UseLocal {
			if v, ok := t.local.Get(key); ok {
				out[key] = v
				continue
			}
		}
		if t.store != nil {
			v, err := t.store.Get(ctx, key)
			if err == nil {
				out[key] = v
				if opts.UseLocal {
					t.local.Add(key, v)
				}
				continue
			}
			if err != db.ErrKeyNotFound {
				t.logger.Warn("cache batch read failed", zap.String("key", key), zap.Error(err))
			}
		}
		missing = append(missing, key)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := fetchMissing(ctx, missing)
	if err != nil {
		return nil, err
	}
	for key, v := range fetched {
		out[key] = v
		t.Set(ctx, key, v, ttl, opts)
	}
	return out, nil
}

// Invalidate removes a key from both tiers.
func (t *Tiered) Invalidate(ctx context.Context, key string) {
	t.local.Remove(key)
	if t.store == nil {
		return
	}
	if err := t.store.Del(ctx, key); err != nil {
		t.logger.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePattern removes every key matching a glob pattern (e.g.
// "search:full:*") from both tiers.
func (t *Tiered) InvalidatePattern(ctx context.Context, pattern string) {
	for _, key := range t.local.Keys() {
		if ok, _ := path.Match(pattern, key); ok {
			t.local.Remove(key)
		}
	}
	if t.store == nil {
		return
	}
	keys, err := t.store.ScanKeys(ctx, pattern)
	if err != nil {
		t.logger.Warn("cache pattern scan failed", zap.String("pattern", pattern), zap.Error(err))
		return
	}
	if err := t.store.Del(ctx, keys...); err != nil {
		t.logger.Warn("cache pattern delete failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

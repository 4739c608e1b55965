// Package catalog adapts Redis-hash catalog records to the retrieval
// contract consumed by the search orchestrator.
package catalog

import (
	"context"
	"fmt"
	"strings"

	domcat "github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/similarity"
)

// store is the consumer interface for catalog retrieval (ISP).
type store interface {
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// scanCap bounds how many keys one retrieval inspects; total latency
// stays proportional to the requested limit, not catalog size.
const scanCap = 1000

// prefilterOverlap is the loose bigram overlap a candidate needs to be
// worth scoring downstream.
const prefilterOverlap = 0.15

// Repo implements the search orchestrator's CatalogStore contract.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// FindCandidatesByText returns up to limit entities of the given kind
// loosely matching term. Matching here is a cheap pre-filter; precise
// scoring belongs to the caller.
func (r *Repo) FindCandidatesByText(
	ctx context.Context, kind domcat.Kind, term string, limit int,
) ([]domcat.Entity, error) {
	if limit <= 0 {
		return nil, nil
	}

	keys, err := r.store.ScanKeys(ctx, string(kind)+":*")
	if err != nil {
		return nil, fmt.Errorf("scan %s keys: %w", kind, err)
	}
	if len(keys) > scanCap {
		keys = keys[:scanCap]
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %s records: %w", kind, err)
	}

	term = strings.ToLower(term)
	out := make([]domcat.Entity, 0, limit)
	for i, m := range hashes {
		entity := entityFromHash(kind, idFromKey(keys[i]), m)
		if entity == nil {
			continue
		}
		if !roughMatch(term, entity.SearchFields()) {
			continue
		}
		out = append(out, entity)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// PopularitySignal returns the play count of a single record.
func (r *Repo) PopularitySignal(ctx context.Context, kind domcat.Kind, id string) (int64, error) {
	m, err := r.store.HGetAll(ctx, string(kind)+":"+id)
	if err != nil {
		return 0, fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	if kind == domcat.KindPlaylist {
		return parseInt64(m["follower_count"]), nil
	}
	return parseInt64(m["play_count"]), nil
}

// SampleNames returns up to max catalog names and genres for typo
// dictionary construction. Artists and songs are sampled evenly.
func (r *Repo) SampleNames(ctx context.Context, max int) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}

	var names []string
	for _, kind := range []domcat.Kind{domcat.KindArtist, domcat.KindSong} {
		keys, err := r.store.ScanKeys(ctx, string(kind)+":*")
		if err != nil {
			return nil, fmt.Errorf("scan %s keys: %w", kind, err)
		}
		if len(keys) > max/2 {
			keys = keys[:max/2]
		}
		hashes, err := r.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("load %s records: %w", kind, err)
		}
		for _, m := range hashes {
			for _, field := range []string{"name", "title", "genre"} {
				if v := m[field]; v != "" {
					names = append(names, v)
				}
			}
		}
		if len(names) >= max {
			break
		}
	}
	if len(names) > max {
		names = names[:max]
	}
	return names, nil
}

// roughMatch keeps candidates that contain the term, share a query
// word, or clear a loose bigram overlap, so near-miss typos survive
// the pre-filter.
func roughMatch(term string, fields map[string]string) bool {
	if term == "" {
		return true
	}
	words := strings.Fields(term)
	for _, value := range fields {
		v := strings.ToLower(value)
		if strings.Contains(v, term) {
			return true
		}
		for _, w := range words {
			if strings.Contains(v, w) {
				return true
			}
		}
		if similarity.NGramOverlap(term, v, 2) >= prefilterOverlap {
			return true
		}
	}
	return false
}

func idFromKey(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}

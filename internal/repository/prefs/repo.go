// Package prefs reads user preference profiles. The user-profile
// service owns the records; this repository reads a copy and caches it
// briefly in the local tier -- preference lookups repeat on every
// personalized search.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/melodex/melodex/internal/cache"
	"github.com/melodex/melodex/internal/domain"
	domprefs "github.com/melodex/melodex/internal/domain/prefs"
)

// store is the consumer interface for preference reads (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// prefsDTO is the cached JSON shape of a preference profile.
type prefsDTO struct {
	Preferred       []string `json:"preferred"`
	Excluded        []string `json:"excluded"`
	Personalization bool     `json:"personalization"`
	Language        string   `json:"language"`
	AllowExplicit   bool     `json:"allowExplicit"`
}

// Repo implements the orchestrator's PrefReader contract.
type Repo struct {
	store store
	cache *cache.Tiered
	ttl   time.Duration
}

// New creates a preferences repository. ttl is the short cache tier.
func New(s store, c *cache.Tiered, ttl time.Duration) *Repo {
	return &Repo{store: s, cache: c, ttl: ttl}
}

// Get returns the preference profile for userID, or nil when the user
// has none. Profiles are small and hot, so they are local-tier
// cacheable under stampede protection.
func (r *Repo) Get(ctx context.Context, userID string) (*domprefs.Preferences, error) {
	if userID == "" {
		return nil, nil
	}

	key := domain.KeyUser + domain.OpPrefs + userID
	opts := cache.Options{UseLocal: true, StampedeProtection: true}

	raw, err := r.cache.Get(ctx, key, r.ttl, opts, func(ctx context.Context) ([]byte, error) {
		return r.load(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	var dto prefsDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("decode preferences for %s: %w", userID, err)
	}
	p := domprefs.New(dto.Preferred, dto.Excluded, dto.Personalization, dto.Language, dto.AllowExplicit)
	return &p, nil
}

func (r *Repo) load(ctx context.Context, userID string) ([]byte, error) {
	m, err := r.store.HGetAll(ctx, domain.KeyUser+domain.OpPrefs+userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences for %s: %w", userID, err)
	}

	dto := prefsDTO{
		Preferred:       splitGenres(m["preferred_genres"]),
		Excluded:        splitGenres(m["excluded_genres"]),
		Personalization: m["personalization"] == "1",
		Language:        m["language"],
		AllowExplicit:   m["allow_explicit"] != "0",
	}
	return json.Marshal(dto)
}

func splitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

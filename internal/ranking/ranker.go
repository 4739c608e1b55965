// Package ranking turns matched candidates into a final relevance
// ordering. The composite score blends text match quality, log-scaled
// popularity, personalization, and multi-field coverage. Scores may go
// negative under genre exclusion; they are a relative ordering signal
// only.
package ranking

import (
	"math"
	"strings"

	"github.com/melodex/melodex/internal/domain/prefs"
)

// Config holds ranking weights. Defaults preserve the relative
// magnitudes the regression tests pin down; exact values are tunable.
type Config struct {
	ExactWeight        float64
	PrefixWeight       float64
	ContainsWeight     float64
	WordBoundaryWeight float64
	LengthProximity    float64

	// PopularityNormalizer divides ln(playCount); PopularityCap clamps
	// the result so volume alone cannot dominate relevance.
	PopularityNormalizer float64
	PopularityCap        float64

	// PreferredGenreBoost is added when the candidate genre is in the
	// user's preferred set and personalization is on.
	// ExcludedGenrePenalty is subtracted whenever the genre is
	// excluded, and must exceed the boost: exclusion always wins.
	PreferredGenreBoost  float64
	ExcludedGenrePenalty float64

	// MultiFieldBonus rewards multi-word queries whose every word is
	// found somewhere across the candidate's searchable fields.
	MultiFieldBonus float64
}

// DefaultConfig returns the default ranking weights.
func DefaultConfig() Config {
	return Config{
		ExactWeight:          1.0,
		PrefixWeight:         0.8,
		ContainsWeight:       0.6,
		WordBoundaryWeight:   0.7,
		LengthProximity:      0.1,
		PopularityNormalizer: 10,
		PopularityCap:        2.5,
		PreferredGenreBoost:  0.5,
		ExcludedGenrePenalty: 1.0,
		MultiFieldBonus:      0.3,
	}
}

// Ranker computes composite relevance scores.
type Ranker struct {
	cfg Config
}

// New creates a Ranker; zero-valued config fields get defaults, and the
// exclusion penalty is forced above the preference boost.
func New(cfg Config) *Ranker {
	def := DefaultConfig()
	if cfg.ExactWeight <= 0 {
		cfg.ExactWeight = def.ExactWeight
	}
	if cfg.PrefixWeight <= 0 {
		cfg.PrefixWeight = def.PrefixWeight
	}
	if cfg.ContainsWeight <= 0 {
		cfg.ContainsWeight = def.ContainsWeight
	}
	if cfg.WordBoundaryWeight <= 0 {
		cfg.WordBoundaryWeight = def.WordBoundaryWeight
	}
	if cfg.LengthProximity <= 0 {
		cfg.LengthProximity = def.LengthProximity
	}
	if cfg.PopularityNormalizer <= 0 {
		cfg.PopularityNormalizer = def.PopularityNormalizer
	}
	if cfg.PopularityCap <= 0 {
		cfg.PopularityCap = def.PopularityCap
	}
	if cfg.PreferredGenreBoost <= 0 {
		cfg.PreferredGenreBoost = def.PreferredGenreBoost
	}
	if cfg.ExcludedGenrePenalty <= 0 {
		cfg.ExcludedGenrePenalty = def.ExcludedGenrePenalty
	}
	if cfg.MultiFieldBonus <= 0 {
		cfg.MultiFieldBonus = def.MultiFieldBonus
	}
	// Exclusion must strictly dominate preference.
	if cfg.ExcludedGenrePenalty <= cfg.PreferredGenreBoost {
		cfg.ExcludedGenrePenalty = cfg.PreferredGenreBoost * 2
	}
	return &Ranker{cfg: cfg}
}

// Score computes the composite relevance of a candidate for term.
// fields maps field name to text value, genre is the candidate's genre,
// playCount its popularity signal, and p the user's preferences (nil
// for anonymous searches).
func (r *Ranker) Score(term string, fields map[string]string, genre string, playCount int64, p *prefs.Preferences) float64 {
	term = strings.ToLower(strings.TrimSpace(term))

	score := r.textRelevance(term, fields)
	score += r.popularity(playCount)
	score += r.personalization(genre, p)

	if words := strings.Fields(term); len(words) > 1 && allWordsCovered(words, fields) {
		score += r.cfg.MultiFieldBonus
	}
	return score
}

// textRelevance is the best per-field match quality in [0, ~1.1]: the
// strongest of exact/prefix/contains/word-boundary plus a small term
// rewarding candidates whose length is close to the query's.
func (r *Ranker) textRelevance(term string, fields map[string]string) float64 {
	var best float64
	for _, value := range fields {
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "" || term == "" {
			continue
		}

		var s float64
		switch {
		case v == term:
			s = r.cfg.ExactWeight
		case strings.HasPrefix(v, term):
			s = r.cfg.PrefixWeight
		case atWordBoundary(v, term):
			s = r.cfg.WordBoundaryWeight
		case strings.Contains(v, term):
			s = r.cfg.ContainsWeight
		default:
			continue
		}

		longest := len(v)
		if len(term) > longest {
			longest = len(term)
		}
		diff := len(v) - len(term)
		if diff < 0 {
			diff = -diff
		}
		s += r.cfg.LengthProximity * (1 - float64(diff)/float64(longest))

		if s > best {
			best = s
		}
	}
	return best
}

// popularity is ln(playCount)/normalizer clamped to the cap.
func (r *Ranker) popularity(playCount int64) float64 {
	if playCount <= 0 {
		return 0
	}
	p := math.Log(float64(playCount)) / r.cfg.PopularityNormalizer
	if p > r.cfg.PopularityCap {
		p = r.cfg.PopularityCap
	}
	return p
}

// personalization applies the genre boost and exclusion penalty.
// The penalty applies regardless of the personalization toggle and
// regardless of a simultaneous preferred-genre hit.
func (r *Ranker) personalization(genre string, p *prefs.Preferences) float64 {
	if p == nil || genre == "" {
		return 0
	}
	var term float64
	if p.Personalization() && p.Prefers(genre) {
		term += r.cfg.PreferredGenreBoost
	}
	if p.Excludes(genre) {
		term -= r.cfg.ExcludedGenrePenalty
	}
	return term
}

// atWordBoundary reports whether term starts at a word boundary inside
// s, excluding the prefix position (handled separately).
func atWordBoundary(s, term string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], term)
		if i < 0 {
			return false
		}
		at := idx + i
		if at > 0 && s[at-1] == ' ' {
			return true
		}
		idx = at + 1
		if idx >= len(s) {
			return false
		}
	}
}

// allWordsCovered reports whether every query word appears in at least
// one field.
func allWordsCovered(words []string, fields map[string]string) bool {
	for _, w := range words {
		found := false
		for _, value := range fields {
			if strings.Contains(strings.ToLower(value), w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

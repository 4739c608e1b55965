// Package fuzzy combines similarity metrics into a single normalized
// match score per candidate field. All scores live on one [0,1] scale
// regardless of which strategy produced them, so results from different
// retrieval paths sort together without rescaling.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/melodex/melodex/internal/similarity"
)

// MatchKind tags which strategy produced the winning score.
type MatchKind string

const (
	// MatchExact is a case-insensitive exact match.
	MatchExact MatchKind = "exact"
	// MatchPrefix is a case-insensitive prefix match.
	MatchPrefix MatchKind = "prefix"
	// MatchContains is a case-insensitive substring match.
	MatchContains MatchKind = "contains"
	// MatchFuzzy is a weighted-metric match.
	MatchFuzzy MatchKind = "fuzzy"
	// MatchNone means the candidate fell below the score threshold.
	MatchNone MatchKind = "none"
)

// Config holds match weights. Flat bonuses and the metric sum are both
// on a [0,1] scale; the final score is their maximum, never their sum,
// so an exact match is never diluted by noisy metric averaging.
type Config struct {
	ExactWeight       float64
	PrefixWeight      float64
	ContainsWeight    float64
	LevenshteinWeight float64
	JaroWinklerWeight float64
	NGramWeight       float64
	NGramSize         int
	// MinScore filters low-confidence candidates before ranking,
	// bounding the pool fed to the ranker.
	MinScore float64
}

// DefaultConfig returns the default match weights.
func DefaultConfig() Config {
	return Config{
		ExactWeight:       1.0,
		PrefixWeight:      0.9,
		ContainsWeight:    0.75,
		LevenshteinWeight: 1.0,
		JaroWinklerWeight: 1.0,
		NGramWeight:       0.8,
		NGramSize:         2,
		MinScore:          0.3,
	}
}

// Matcher scores how well a candidate string matches a query.
type Matcher struct {
	cfg Config
}

// New creates a Matcher; zero-valued config fields get defaults.
func New(cfg Config) *Matcher {
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
	if cfg.LevenshteinWeight < 0 {
		cfg.LevenshteinWeight = def.LevenshteinWeight
	}
	if cfg.JaroWinklerWeight < 0 {
		cfg.JaroWinklerWeight = def.JaroWinklerWeight
	}
	if cfg.NGramWeight < 0 {
		cfg.NGramWeight = def.NGramWeight
	}
	if cfg.LevenshteinWeight+cfg.JaroWinklerWeight+cfg.NGramWeight == 0 {
		cfg.LevenshteinWeight = def.LevenshteinWeight
		cfg.JaroWinklerWeight = def.JaroWinklerWeight
		cfg.NGramWeight = def.NGramWeight
	}
	if cfg.NGramSize <= 0 {
		cfg.NGramSize = def.NGramSize
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = def.MinScore
	}
	return &Matcher{cfg: cfg}
}

// Match scores candidate against query on a [0,1] scale. Candidates
// scoring below MinScore return (0, MatchNone).
func (m *Matcher) Match(query, candidate string) (float64, MatchKind) {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return 0, MatchNone
	}

	flat, kind := m.flatBonus(q, c)
	metric := m.metricScore(q, c)

	score := flat
	if metric > score {
		score, kind = metric, MatchFuzzy
	}
	if score < m.cfg.MinScore {
		return 0, MatchNone
	}
	return score, kind
}

func (m *Matcher) flatBonus(q, c string) (float64, MatchKind) {
	switch {
	case q == c:
		return m.cfg.ExactWeight, MatchExact
	case strings.HasPrefix(c, q):
		return m.cfg.PrefixWeight, MatchPrefix
	case strings.Contains(c, q):
		return m.cfg.ContainsWeight, MatchContains
	}
	return 0, MatchNone
}

// metricScore is the weighted mean of the active similarity metrics,
// each already in [0,1]. Edit distance is converted to a similarity via
// 1 - distance/max(len).
func (m *Matcher) metricScore(q, c string) float64 {
	var sum, weight float64

	if m.cfg.LevenshteinWeight > 0 {
		dist := similarity.Levenshtein(q, c)
		longest := len([]rune(q))
		if l := len([]rune(c)); l > longest {
			longest = l
		}
		var sim float64
		if longest > 0 {
			sim = 1 - float64(dist)/float64(longest)
		}
		if sim < 0 {
			sim = 0
		}
		sum += m.cfg.LevenshteinWeight * sim
		weight += m.cfg.LevenshteinWeight
	}
	if m.cfg.JaroWinklerWeight > 0 {
		sum += m.cfg.JaroWinklerWeight * similarity.JaroWinkler(q, c)
		weight += m.cfg.JaroWinklerWeight
	}
	if m.cfg.NGramWeight > 0 {
		sum += m.cfg.NGramWeight * similarity.NGramOverlap(q, c, m.cfg.NGramSize)
		weight += m.cfg.NGramWeight
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

// MatchFields scores every searchable field of a candidate and returns
// the best score, the winning kind, and the names of all fields that
// cleared the threshold.
func (m *Matcher) MatchFields(query string, fields map[string]string) (float64, MatchKind, []string) {
	var (
		best     float64
		bestKind = MatchNone
		matched  []string
	)
	for name, value := range fields {
		score, kind := m.Match(query, value)
		if kind == MatchNone {
			continue
		}
		matched = append(matched, name)
		if score > best {
			best, bestKind = score, kind
		}
	}
	sort.Strings(matched)
	return best, bestKind, matched
}

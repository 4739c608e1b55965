// Package typo suggests spelling corrections for sparse search results.
// The dictionary is transient: a bounded sample of catalog names taken
// at call time, never a maintained index.
package typo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/melodex/melodex/internal/similarity"
)

// minCorrectionLen rejects candidates too short to meaningfully correct.
const minCorrectionLen = 3

// SampleSource supplies catalog names for dictionary construction.
type SampleSource interface {
	SampleNames(ctx context.Context, max int) ([]string, error)
}

// Correction is a dictionary word within the edit-distance threshold.
type Correction struct {
	Word     string
	Distance int
}

// Config bounds corrector cost.
type Config struct {
	// EditThreshold is the maximum edit distance for a correction.
	EditThreshold int
	// SampleCap bounds how many catalog names feed the dictionary;
	// sampling, not the distance scan, is the expensive step.
	SampleCap int
}

// DefaultConfig returns the default corrector bounds.
func DefaultConfig() Config {
	return Config{EditThreshold: 2, SampleCap: 500}
}

// Corrector builds ephemeral dictionaries and proposes corrections.
type Corrector struct {
	source SampleSource
	cfg    Config
}

// New creates a Corrector; zero-valued config fields get defaults.
func New(source SampleSource, cfg Config) *Corrector {
	def := DefaultConfig()
	if cfg.EditThreshold <= 0 {
		cfg.EditThreshold = def.EditThreshold
	}
	if cfg.SampleCap <= 0 {
		cfg.SampleCap = def.SampleCap
	}
	return &Corrector{source: source, cfg: cfg}
}

// SuggestCorrections returns dictionary entries whose edit distance to
// term is within the threshold, sorted by distance ascending then
// lexicographically, truncated to max. The term itself and entries
// shorter than three runes are never returned.
func (c *Corrector) SuggestCorrections(term string, dictionary []string, max int) []Correction {
	term = strings.ToLower(strings.TrimSpace(term))
	if len([]rune(term)) < minCorrectionLen {
		return nil
	}

	seen := make(map[string]struct{}, len(dictionary))
	var out []Correction
	for _, word := range dictionary {
		w := strings.ToLower(strings.TrimSpace(word))
		if len([]rune(w)) < minCorrectionLen || w == term {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}

		dist := similarity.Levenshtein(term, w)
		if dist > c.cfg.EditThreshold {
			continue
		}
		out = append(out, Correction{Word: w, Distance: dist})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Word < out[j].Word
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// GenerateSuggestions samples the catalog, tokenizes names into a
// transient dictionary, and returns the closest corrections for term.
// A sampling failure is returned to the caller for logging; primary
// results are never affected.
func (c *Corrector) GenerateSuggestions(ctx context.Context, term string, limit int) ([]Correction, error) {
	names, err := c.source.SampleNames(ctx, c.cfg.SampleCap)
	if err != nil {
		return nil, fmt.Errorf("sample catalog names: %w", err)
	}

	dictionary := make([]string, 0, len(names)*2)
	for _, name := range names {
		dictionary = append(dictionary, name)
		for _, word := range strings.Fields(name) {
			if len([]rune(word)) > 2 {
				dictionary = append(dictionary, word)
			}
		}
	}

	return c.SuggestCorrections(term, dictionary, limit), nil
}

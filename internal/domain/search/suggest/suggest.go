// Package suggest defines search suggestions: completions, spelling
// corrections, and discovery hints attached to a search response.
package suggest

import "strings"

// Kind tags the origin of a suggestion.
type Kind string

const (
	// Completion extends the partial query to a full known term.
	Completion Kind = "completion"
	// Correction is a spelling correction of the query.
	Correction Kind = "correction"
	// RelatedArtist points at an artist adjacent to the matched results.
	RelatedArtist Kind = "related_artist"
	// RelatedGenre points at a genre adjacent to the matched results.
	RelatedGenre Kind = "related_genre"
	// Trending is a currently popular search term.
	Trending Kind = "trending"
	// Personalized is derived from the user's own history.
	Personalized Kind = "personalized"
)

// Suggestion is a single suggested query with provenance metadata
// (source item id/kind, computed score, edit distance for corrections).
type Suggestion struct {
	Text     string            `json:"text"`
	Kind     Kind              `json:"kind"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Dedupe removes case-insensitive duplicates preserving first-seen
// order, then truncates to max. A max <= 0 means no truncation.
func Dedupe(in []Suggestion, max int) []Suggestion {
	seen := make(map[string]struct{}, len(in))
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s.Text))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

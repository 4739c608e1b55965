// Package prefs holds the read-only copy of user preferences consumed
// by ranking. The user-profile service owns the source of truth; this
// core only reads and caches it.
package prefs

import "strings"

// Preferences is a user's personalization profile.
type Preferences struct {
	preferred       map[string]struct{}
	excluded        map[string]struct{}
	personalization bool
	language        string
	allowExplicit   bool
}

// New builds a Preferences copy. Genre matching is case-insensitive.
func New(preferred, excluded []string, personalization bool, language string, allowExplicit bool) Preferences {
	return Preferences{
		preferred:       toSet(preferred),
		excluded:        toSet(excluded),
		personalization: personalization,
		language:        language,
		allowExplicit:   allowExplicit,
	}
}

func toSet(genres []string) map[string]struct{} {
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			set[g] = struct{}{}
		}
	}
	return set
}

// Prefers reports whether genre is in the preferred set.
func (p *Preferences) Prefers(genre string) bool {
	_, ok := p.preferred[strings.ToLower(genre)]
	return ok
}

// Excludes reports whether genre is in the excluded set.
func (p *Preferences) Excludes(genre string) bool {
	_, ok := p.excluded[strings.ToLower(genre)]
	return ok
}

// Personalization reports whether the user opted into personalized
// ranking. Exclusions apply regardless.
func (p *Preferences) Personalization() bool { return p.personalization }

// Language returns the user's preferred language.
func (p *Preferences) Language() string { return p.language }

// AllowExplicit reports whether explicit content may be returned.
func (p *Preferences) AllowExplicit() bool { return p.allowExplicit }

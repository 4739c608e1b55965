package query

// Range is a closed numeric interval; a zero Max means unbounded above.
type Range struct {
	Min float64
	Max float64
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	if r.IsZero() {
		return true
	}
	if v < r.Min {
		return false
	}
	return r.Max == 0 || v <= r.Max
}

// Filters narrows a search to structural constraints. The zero value
// matches everything.
type Filters struct {
	Genres       []string
	YearRange    Range
	Duration     Range // seconds
	Popularity   Range // play count
	Energy       Range
	Danceability Range
	ExplicitOnly *bool
	VerifiedOnly bool
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return len(f.Genres) == 0 &&
		f.YearRange.IsZero() && f.Duration.IsZero() && f.Popularity.IsZero() &&
		f.Energy.IsZero() && f.Danceability.IsZero() &&
		f.ExplicitOnly == nil && !f.VerifiedOnly
}

// Narrow reports whether the filter set is restrictive enough that the
// result is unlikely to repeat across users. Narrow queries skip the
// shared cache.
func (f Filters) Narrow() bool {
	active := 0
	if len(f.Genres) > 0 {
		active++
	}
	for _, r := range []Range{f.YearRange, f.Duration, f.Popularity, f.Energy, f.Danceability} {
		if !r.IsZero() {
			active++
		}
	}
	if f.ExplicitOnly != nil {
		active++
	}
	if f.VerifiedOnly {
		active++
	}
	return active >= 3
}

// Package similarity provides the string distance metrics underlying
// fuzzy matching. Every function is pure, deterministic, symmetric, and
// case-insensitive, so results are safe to cache.
package similarity

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// Levenshtein returns the edit distance between case-folded a and b.
// Zero means identical; an empty string is the length of the other.
func Levenshtein(a, b string) int {
	a, b = fold(a), fold(b)
	if a == b {
		return 0
	}
	if a == "" {
		return len([]rune(b))
	}
	if b == "" {
		return len([]rune(a))
	}
	return edlib.LevenshteinDistance(a, b)
}

// JaroWinkler returns a similarity in [0,1] rewarding shared prefixes
// and order-preserving common characters. It catches transposition
// typos that edit distance over-penalizes. Empty input yields 0.
func JaroWinkler(a, b string) float64 {
	a, b = fold(a), fold(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return float64(edlib.JaroWinklerSimilarity(a, b))
}

// NGramOverlap returns the Dice overlap fraction of character n-grams
// in [0,1]: 2*|shared| / (|grams(a)| + |grams(b)|). Resilient to word
// reordering and truncated queries. Strings shorter than n contribute a
// single whole-string gram so very short inputs still compare.
func NGramOverlap(a, b string, n int) float64 {
	a, b = fold(a), fold(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if n < 1 {
		n = 2
	}

	ga := ngrams(a, n)
	gb := ngrams(b, n)

	var shared int
	for g, ca := range ga {
		if cb, ok := gb[g]; ok {
			shared += min(ca, cb)
		}
	}

	total := 0
	for _, c := range ga {
		total += c
	}
	for _, c := range gb {
		total += c
	}
	return 2 * float64(shared) / float64(total)
}

func ngrams(s string, n int) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int)
	if len(runes) < n {
		grams[s] = 1
		return grams
	}
	for i := 0; i+n <= len(runes); i++ {
		grams[string(runes[i:i+n])]++
	}
	return grams
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package domain

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// suggestThreshold is the minimum name similarity for a suggestion.
const suggestThreshold = 0.6

// SuggestColumn returns the existing column name most similar to the
// requested one, or "" when nothing is close enough. Used to enrich
// "column not found" errors.
func SuggestColumn(requested string, columns []string) string {
	best := ""
	bestScore := suggestThreshold
	for _, col := range columns {
		score := nameSimilarity(requested, col)
		if score > bestScore {
			best = col
			bestScore = score
		}
	}
	return best
}

// nameSimilarity scores two names in [0,1] by normalised Levenshtein
// distance, case-insensitive.
func nameSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	return 1 - float64(distance)/float64(maxLen)
}

package domain

// CardinalityClass describes how many distinct values a column takes
// relative to its row count.
type CardinalityClass string

const (
	CardinalityEmpty    CardinalityClass = "Empty"
	CardinalityLow      CardinalityClass = "Low"
	CardinalityMedium   CardinalityClass = "Medium"
	CardinalityHigh     CardinalityClass = "High"
	CardinalityVeryHigh CardinalityClass = "Very High (possible identifier)"
)

// AssessCardinality classifies a column by distinct and total row counts.
// Branches are evaluated in order; the first match wins.
func AssessCardinality(uniqueCount, totalRows int64) CardinalityClass {
	if totalRows == 0 {
		return CardinalityEmpty
	}
	ratio := float64(uniqueCount) / float64(totalRows)
	switch {
	case uniqueCount <= 10:
		return CardinalityLow
	case uniqueCount <= 100 || ratio < 0.01:
		return CardinalityMedium
	case ratio < 0.5:
		return CardinalityHigh
	default:
		return CardinalityVeryHigh
	}
}

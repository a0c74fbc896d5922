package domain

import "fmt"

const (
	// nullMarker is how NULL values appear in rendered distributions.
	nullMarker = "<NULL>"
	// maxDisplayLen caps rendered value length; longer values are
	// truncated for display only, the raw value is kept intact.
	maxDisplayLen = 50
)

// ColumnStats holds the three scalar aggregates for a column.
type ColumnStats struct {
	Total       int64 `json:"total"`
	Nulls       int64 `json:"nulls"`
	UniqueCount int64 `json:"unique_count"`
}

// NonNull returns the number of rows with a value in the column.
func (s ColumnStats) NonNull() int64 {
	return s.Total - s.Nulls
}

// NullPct returns the null percentage, 0 for an empty column.
func (s ColumnStats) NullPct() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Nulls) / float64(s.Total) * 100
}

// ValueCount is one (value, count) pair from the grouped top-N query,
// in rank order. A nil Value is SQL NULL.
type ValueCount struct {
	Value any
	Count int64
}

// DistributionEntry is one ranked value with its share of all rows.
type DistributionEntry struct {
	Value         any     `json:"value"`
	Null          bool    `json:"null,omitempty"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
	CumulativePct float64 `json:"cumulative_percentage"`
}

// Display renders the entry's value for report output: NULL marker for
// nulls, truncation with an ellipsis beyond maxDisplayLen characters.
func (e DistributionEntry) Display() string {
	if e.Null {
		return nullMarker
	}
	s := fmt.Sprintf("%v", e.Value)
	// Truncate on runes so multi-byte values are never split mid-character.
	if r := []rune(s); len(r) > maxDisplayLen {
		return string(r[:maxDisplayLen-3]) + "..."
	}
	return s
}

// Summary is the per-column statistics block of an analysis.
type Summary struct {
	Total       int64            `json:"total"`
	Nulls       int64            `json:"nulls"`
	NonNull     int64            `json:"non_null"`
	UniqueCount int64            `json:"unique_count"`
	NullPct     float64          `json:"null_pct"`
	Cardinality CardinalityClass `json:"cardinality"`
}

// Analysis is the full result of analyzing one column's distribution.
type Analysis struct {
	Summary      Summary             `json:"summary"`
	Distribution []DistributionEntry `json:"distribution"`
	Observations []string            `json:"observations"`
}

// Analyze turns the raw aggregates into percentages, cumulative
// percentages, a cardinality class, and observations. It is a pure
// function and never fails: zero-division guards are structural.
func Analyze(stats ColumnStats, values []ValueCount) Analysis {
	entries := make([]DistributionEntry, 0, len(values))
	cumulative := 0.0
	topValuePct := 0.0

	for i, vc := range values {
		pct := 0.0
		if stats.Total > 0 {
			pct = float64(vc.Count) / float64(stats.Total) * 100
		}
		cumulative += pct
		if i == 0 {
			topValuePct = pct
		}
		entries = append(entries, DistributionEntry{
			Value:         vc.Value,
			Null:          vc.Value == nil,
			Count:         vc.Count,
			Percentage:    pct,
			CumulativePct: cumulative,
		})
	}

	return Analysis{
		Summary: Summary{
			Total:       stats.Total,
			Nulls:       stats.Nulls,
			NonNull:     stats.NonNull(),
			UniqueCount: stats.UniqueCount,
			NullPct:     stats.NullPct(),
			Cardinality: AssessCardinality(stats.UniqueCount, stats.Total),
		},
		Distribution: entries,
		Observations: GenerateObservations(stats, topValuePct),
	}
}

// GenerateObservations produces the ordered observation list for a
// column. Deterministic: the same inputs always yield the same strings
// in the same order.
func GenerateObservations(stats ColumnStats, topValuePct float64) []string {
	var observations []string

	switch AssessCardinality(stats.UniqueCount, stats.Total) {
	case CardinalityLow:
		observations = append(observations, fmt.Sprintf(
			"Low cardinality column (%d unique values) - suitable for categorical encoding",
			stats.UniqueCount))
	case CardinalityVeryHigh:
		observations = append(observations,
			"Very high cardinality - may be an identifier column, consider excluding from features")
	}

	// Missing-data tiers are mutually exclusive. The boundaries are
	// deliberately asymmetric with the imbalance tiers below (< vs >);
	// changing them would alter observable report text.
	nullPct := stats.NullPct()
	switch {
	case nullPct == 0:
		observations = append(observations, "No missing data")
	case nullPct < 1:
		observations = append(observations, fmt.Sprintf("Minimal missing data (%.2f%%)", nullPct))
	case nullPct < 5:
		observations = append(observations, fmt.Sprintf(
			"Some missing data (%.2f%%) - consider imputation strategy", nullPct))
	default:
		observations = append(observations, fmt.Sprintf(
			"Significant missing data (%.2f%%) - investigate missingness pattern", nullPct))
	}

	switch {
	case topValuePct > 95:
		observations = append(observations, fmt.Sprintf(
			"Extreme imbalance: top value represents %.1f%% of data", topValuePct))
	case topValuePct > 80:
		observations = append(observations, fmt.Sprintf(
			"Class imbalance detected: top value represents %.1f%% of data", topValuePct))
	}

	return observations
}

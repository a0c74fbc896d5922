package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_StatusColumn(t *testing.T) {
	// 1000 rows: completed:800, pending:100, cancelled:50, refunded:40, NULL:10.
	stats := ColumnStats{Total: 1000, Nulls: 10, UniqueCount: 4}
	values := []ValueCount{
		{Value: "completed", Count: 800},
		{Value: "pending", Count: 100},
		{Value: "cancelled", Count: 50},
		{Value: "refunded", Count: 40},
	}

	a := Analyze(stats, values)

	assert.Equal(t, int64(1000), a.Summary.Total)
	assert.Equal(t, int64(10), a.Summary.Nulls)
	assert.Equal(t, int64(990), a.Summary.NonNull)
	assert.Equal(t, int64(4), a.Summary.UniqueCount)
	assert.InDelta(t, 1.0, a.Summary.NullPct, 1e-9)
	assert.Equal(t, CardinalityLow, a.Summary.Cardinality)

	require.Len(t, a.Distribution, 4)
	top := a.Distribution[0]
	assert.Equal(t, "completed", top.Display())
	assert.InDelta(t, 80.0, top.Percentage, 1e-9)
	assert.InDelta(t, 80.0, top.CumulativePct, 1e-9)
	assert.InDelta(t, 99.0, a.Distribution[3].CumulativePct, 1e-9)

	// 1.0% is not < 1, so it lands in the "some missing data" tier,
	// and 80.0% is not > 80, so no imbalance observation fires.
	assert.Equal(t, []string{
		"Low cardinality column (4 unique values) - suitable for categorical encoding",
		"Some missing data (1.00%) - consider imputation strategy",
	}, a.Observations)
}

func TestAnalyze_EmptySource(t *testing.T) {
	a := Analyze(ColumnStats{}, nil)

	assert.Equal(t, CardinalityEmpty, a.Summary.Cardinality)
	assert.Zero(t, a.Summary.NullPct)
	assert.Empty(t, a.Distribution)
	assert.Contains(t, a.Observations, "No missing data")
}

func TestAnalyze_CumulativeNonDecreasing(t *testing.T) {
	stats := ColumnStats{Total: 100, Nulls: 0, UniqueCount: 5}
	values := []ValueCount{
		{Value: "a", Count: 40},
		{Value: "b", Count: 30},
		{Value: "c", Count: 15},
		{Value: "d", Count: 10},
		{Value: "e", Count: 5},
	}

	a := Analyze(stats, values)

	prev := 0.0
	for _, e := range a.Distribution {
		assert.GreaterOrEqual(t, e.CumulativePct, prev)
		prev = e.CumulativePct
	}
	assert.InDelta(t, 100.0, prev, 1e-6)
}

func TestAnalyze_LimitTruncatesCumulative(t *testing.T) {
	// Only the top 2 of 10 unique values are passed in; the final
	// cumulative percentage must stay strictly below 100.
	stats := ColumnStats{Total: 100, Nulls: 0, UniqueCount: 10}
	values := []ValueCount{
		{Value: "a", Count: 50},
		{Value: "b", Count: 20},
	}

	a := Analyze(stats, values)
	require.Len(t, a.Distribution, 2)
	assert.Less(t, a.Distribution[1].CumulativePct, 100.0)
}

func TestDistributionEntry_Display(t *testing.T) {
	long := strings.Repeat("x", 60)

	tests := []struct {
		name  string
		entry DistributionEntry
		want  string
	}{
		{"plain string", DistributionEntry{Value: "completed"}, "completed"},
		{"null marker", DistributionEntry{Null: true}, "<NULL>"},
		{"integer value", DistributionEntry{Value: 42}, "42"},
		{"exactly 50 chars untouched", DistributionEntry{Value: strings.Repeat("y", 50)}, strings.Repeat("y", 50)},
		{"long value truncated", DistributionEntry{Value: long}, strings.Repeat("x", 47) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Display())
		})
	}
}

func TestDistributionEntry_DisplayKeepsRawValue(t *testing.T) {
	long := strings.Repeat("z", 80)
	e := DistributionEntry{Value: long}
	_ = e.Display()
	assert.Equal(t, long, e.Value, "truncation must not mutate the stored value")
}

func TestGenerateObservations_Tiers(t *testing.T) {
	tests := []struct {
		name        string
		stats       ColumnStats
		topValuePct float64
		want        []string
	}{
		{
			name:  "no missing, no imbalance",
			stats: ColumnStats{Total: 100, Nulls: 0, UniqueCount: 50},
			want:  []string{"No missing data"},
		},
		{
			name:        "minimal missing below one percent",
			stats:       ColumnStats{Total: 1000, Nulls: 5, UniqueCount: 50},
			topValuePct: 10,
			want:        []string{"Minimal missing data (0.50%)"},
		},
		{
			name:        "significant missing",
			stats:       ColumnStats{Total: 100, Nulls: 20, UniqueCount: 30},
			topValuePct: 10,
			want:        []string{"Significant missing data (20.00%) - investigate missingness pattern"},
		},
		{
			name:        "class imbalance above 80",
			stats:       ColumnStats{Total: 100, Nulls: 0, UniqueCount: 30},
			topValuePct: 81,
			want: []string{
				"No missing data",
				"Class imbalance detected: top value represents 81.0% of data",
			},
		},
		{
			name:        "extreme imbalance above 95",
			stats:       ColumnStats{Total: 100, Nulls: 0, UniqueCount: 30},
			topValuePct: 99.5,
			want: []string{
				"No missing data",
				"Extreme imbalance: top value represents 99.5% of data",
			},
		},
		{
			name:        "exactly 95 is only class imbalance",
			stats:       ColumnStats{Total: 100, Nulls: 0, UniqueCount: 30},
			topValuePct: 95,
			want: []string{
				"No missing data",
				"Class imbalance detected: top value represents 95.0% of data",
			},
		},
		{
			name:  "very high cardinality note",
			stats: ColumnStats{Total: 1000, Nulls: 0, UniqueCount: 999},
			want: []string{
				"Very high cardinality - may be an identifier column, consider excluding from features",
				"No missing data",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateObservations(tt.stats, tt.topValuePct)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateObservations_Deterministic(t *testing.T) {
	stats := ColumnStats{Total: 500, Nulls: 3, UniqueCount: 7}
	first := GenerateObservations(stats, 85)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GenerateObservations(stats, 85))
	}
}

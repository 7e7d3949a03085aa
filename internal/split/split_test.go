package split

import (
	"errors"
	"math"
	"testing"

	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenRows returns rows ranked 100..10 in descending order, with the row
// position stored in "id".
func tenRows() *dataset.Dataset {
	rows := make([]dataset.Row, 10)
	for i := range rows {
		rows[i] = dataset.Row{"rank": float64(100 - 10*i), "id": float64(i)}
	}
	return dataset.New("ten", []string{"rank", "id"}, rows)
}

func ids(rows []dataset.Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}

func TestSplitHalf(t *testing.T) {
	upper, lower, err := Split(tenRows(), "rank", 50)
	require.NoError(t, err)
	assert.Equal(t, 5, upper.Len())
	assert.Equal(t, 5, lower.Len())
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, ids(upper.Rows))
	assert.Equal(t, []float64{5, 6, 7, 8, 9}, ids(lower.Rows))
	assert.Equal(t, "Top 50%", upper.Label)
	assert.Equal(t, "Bottom 50%", lower.Label)
}

func TestSplitClampsExtremes(t *testing.T) {
	tests := []struct {
		percentile float64
		upper      int
	}{
		{0, 1},
		{100, 9},
		{-40, 1},
		{250, 9},
		{math.Inf(1), 9},
		{math.Inf(-1), 1},
		{math.NaN(), 1},
		{5, 1},
		{95, 9},
		{29, 2},
	}
	for _, tt := range tests {
		upper, lower, err := Split(tenRows(), "rank", tt.percentile)
		require.NoError(t, err)
		assert.Equal(t, tt.upper, upper.Len(), "percentile %v", tt.percentile)
		assert.Equal(t, 10-tt.upper, lower.Len(), "percentile %v", tt.percentile)
	}
}

func TestSplitSortsDescendingAndStable(t *testing.T) {
	rows := []dataset.Row{
		{"rank": 1, "id": 0},
		{"rank": 5, "id": 1},
		{"id": 2},
		{"rank": 5, "id": 3},
		{"rank": 3, "id": 4},
		{"rank": math.NaN(), "id": 5},
	}
	ds := dataset.New("ties", []string{"rank", "id"}, rows)
	upper, lower, err := Split(ds, "rank", 50)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 4}, ids(upper.Rows))
	assert.Equal(t, []float64{0, 2, 5}, ids(lower.Rows))
	// input order untouched
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, ids(ds.Rows))
}

func TestSplitIdempotent(t *testing.T) {
	ds := tenRows()
	u1, l1, err := Split(ds, "rank", 35)
	require.NoError(t, err)
	u2, l2, err := Split(ds, "rank", 35)
	require.NoError(t, err)
	assert.Equal(t, ids(u1.Rows), ids(u2.Rows))
	assert.Equal(t, ids(l1.Rows), ids(l2.Rows))
}

func TestSplitMonotoneAndExhaustive(t *testing.T) {
	rows := make([]dataset.Row, 37)
	for i := range rows {
		rows[i] = dataset.Row{"rank": float64((i * 7919) % 101), "id": float64(i)}
	}
	ds := dataset.New("m", []string{"rank", "id"}, rows)
	prev := 0
	for p := -10.0; p <= 110; p += 2.5 {
		upper, lower, err := Split(ds, "rank", p)
		require.NoError(t, err)
		assert.Equal(t, ds.Len(), upper.Len()+lower.Len())
		assert.GreaterOrEqual(t, upper.Len(), 1)
		assert.GreaterOrEqual(t, lower.Len(), 1)
		assert.GreaterOrEqual(t, upper.Len(), prev, "percentile %v", p)
		prev = upper.Len()

		seen := map[float64]bool{}
		for _, r := range append(append([]dataset.Row{}, upper.Rows...), lower.Rows...) {
			assert.False(t, seen[r["id"]], "row %v appears twice", r["id"])
			seen[r["id"]] = true
		}
		assert.Len(t, seen, ds.Len())
	}
}

func TestSplitUpperDoesNotAliasLower(t *testing.T) {
	upper, lower, err := Split(tenRows(), "rank", 50)
	require.NoError(t, err)
	upper.Rows = append(upper.Rows, dataset.Row{"id": 99})
	assert.Equal(t, float64(5), lower.Rows[0]["id"])
}

func TestSplitInsufficientData(t *testing.T) {
	for _, n := range []int{0, 1} {
		rows := make([]dataset.Row, n)
		for i := range rows {
			rows[i] = dataset.Row{"rank": 1}
		}
		_, _, err := Split(dataset.New("small", []string{"rank"}, rows), "rank", 50)
		var ide *InsufficientDataError
		require.True(t, errors.As(err, &ide), "n=%d: got %v", n, err)
		assert.Equal(t, n, ide.Rows)
	}
}

func TestSplitMissingRankColumn(t *testing.T) {
	_, _, err := Split(tenRows(), "gdp", 50)
	var mc *dataset.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "gdp", mc.Column)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Top 5%", UpperLabel(5))
	assert.Equal(t, "Bottom 95%", LowerLabel(5))
	assert.Equal(t, "Top 12.5%", UpperLabel(12.5))
	assert.Equal(t, "Bottom 87.5%", LowerLabel(12.5))
}

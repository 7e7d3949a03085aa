// Package split partitions a dataset into an upper and a lower group at a
// percentile of a rank column.
package split

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
)

// InsufficientDataError indicates the dataset cannot be split into two
// non-empty groups.
type InsufficientDataError struct {
	Rows int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least 2 rows to split, have %d", e.Rows)
}

// Group is a labelled, ordered subsequence of dataset rows.
type Group struct {
	Label string
	Rows  []dataset.Row
}

// Len reports the number of rows in the group.
func (g Group) Len() int { return len(g.Rows) }

// Split sorts rows by rankColumn descending (stable, missing ranks last) and
// cuts at floor(n*percentile/100), clamped to [1, n-1].
func Split(ds *dataset.Dataset, rankColumn string, percentile float64) (upper, lower Group, err error) {
	if err := ds.Require(rankColumn); err != nil {
		return Group{}, Group{}, err
	}
	n := ds.Len()
	if n < 2 {
		return Group{}, Group{}, &InsufficientDataError{Rows: n}
	}
	sorted := make([]dataset.Row, n)
	copy(sorted, ds.Rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aok := sorted[i].Value(rankColumn)
		b, bok := sorted[j].Value(rankColumn)
		if aok != bok {
			return aok
		}
		return aok && a > b
	})
	cut := Cutoff(n, percentile)
	upper = Group{Label: UpperLabel(percentile), Rows: sorted[:cut:cut]}
	lower = Group{Label: LowerLabel(percentile), Rows: sorted[cut:]}
	return upper, lower, nil
}

// Cutoff returns the number of rows in the upper group for n rows. n must be
// at least 2.
func Cutoff(n int, percentile float64) int {
	f := math.Floor(float64(n) * percentile / 100)
	switch {
	case math.IsNaN(f) || f < 1:
		return 1
	case f > float64(n-1):
		return n - 1
	}
	return int(f)
}

// UpperLabel is the label of the upper group, e.g. "Top 50%".
func UpperLabel(percentile float64) string {
	return "Top " + formatPercent(percentile) + "%"
}

// LowerLabel is the label of the lower group, e.g. "Bottom 50%".
func LowerLabel(percentile float64) string {
	return "Bottom " + formatPercent(100-percentile) + "%"
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram holds bin counts; bin i covers [Edges[i], Edges[i+1]).
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// Total sums the bin counts.
func (h Histogram) Total() float64 { return floats.Sum(h.Counts) }

// Bin builds an equal-width histogram of values over [min, max]. The maximum
// lands in the last bin. A constant sample gets a single unit-width bin.
func Bin(values []float64, bins int) Histogram {
	if len(values) == 0 || bins < 1 {
		return Histogram{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	var edges []float64
	if lo == hi {
		edges = []float64{lo - 0.5, hi + 0.5}
	} else {
		edges = floats.Span(make([]float64, bins+1), lo, hi)
		edges[bins] = math.Nextafter(hi, math.Inf(1))
	}
	counts := stat.Histogram(nil, edges, sorted, nil)
	if lo != hi {
		edges[bins] = hi
	}
	return Histogram{Edges: edges, Counts: counts}
}

package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
)

// SweepRange describes the percentile positions of a sweep, inclusive.
type SweepRange struct {
	Min, Max, Step float64
}

// DefaultSweep matches a 5..95 slider in steps of 5.
var DefaultSweep = SweepRange{Min: 5, Max: 95, Step: 5}

// MaxSweepPositions bounds the number of positions one sweep may expand to.
const MaxSweepPositions = 10000

// Percentiles expands the range into its positions.
func (r SweepRange) Percentiles() ([]float64, error) {
	if !(r.Step > 0) || math.IsInf(r.Step, 0) {
		return nil, errors.New("sweep step must be a positive number")
	}
	if !finite(r.Min) || !finite(r.Max) {
		return nil, fmt.Errorf("sweep bounds must be finite, got %g..%g", r.Min, r.Max)
	}
	if r.Max < r.Min {
		return nil, fmt.Errorf("sweep max %.4g below min %.4g", r.Max, r.Min)
	}
	// The epsilon keeps Max when rounding leaves it a hair past the last step.
	n := math.Floor((r.Max-r.Min)/r.Step+1e-9) + 1
	if n > MaxSweepPositions {
		return nil, fmt.Errorf("sweep %g..%g step %g yields %.0f positions (limit %d)", r.Min, r.Max, r.Step, n, MaxSweepPositions)
	}
	out := make([]float64, int(n))
	for i := range out {
		out[i] = r.Min + float64(i)*r.Step
	}
	return out, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Sweep analyzes ds at every position of rng, using req for the columns.
// It stops at the first failing position.
func (a *Analyzer) Sweep(ds *dataset.Dataset, req Request, rng SweepRange) ([]*Result, error) {
	ps, err := rng.Percentiles()
	if err != nil {
		return nil, err
	}
	out := make([]*Result, 0, len(ps))
	for _, p := range ps {
		r := req
		r.Percentile = p
		res, err := a.Analyze(ds, r)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

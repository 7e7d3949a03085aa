package charts

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series is a sampled curve.
type Series struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len reports the number of points.
func (s Series) Len() int { return len(s.X) }

// ScottBandwidth is the Gaussian kernel width for values: the sample standard
// deviation scaled by n^(-1/5).
func ScottBandwidth(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil) * math.Pow(float64(len(values)), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of values at points evenly
// spaced x positions over [min, max]. Fewer than two values, a constant
// sample or points < 2 yield an empty series.
func KDE(values []float64, points int) Series {
	if len(values) < 2 || points < 2 {
		return Series{}
	}
	bw := ScottBandwidth(values)
	if !(bw > 0) || math.IsInf(bw, 0) {
		return Series{}
	}
	lo, hi := floats.Min(values), floats.Max(values)
	est := &stats.KDE{
		Sample:    stats.Sample{Xs: values},
		Kernel:    stats.GaussianKernel,
		Bandwidth: bw,
	}
	xs := floats.Span(make([]float64, points), lo, hi)
	ys := make([]float64, points)
	for i, x := range xs {
		ys[i] = est.PDF(x)
	}
	return Series{X: xs, Y: ys}
}

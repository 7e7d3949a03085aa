package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DescriptiveStats is the fixed battery of summary metrics for one column of
// one group. Metrics that are undefined for the sample hold NaN.
type DescriptiveStats struct {
	Mean              float64
	StandardError     float64
	Median            float64
	StandardDeviation float64
	SampleVariance    float64
	Kurtosis          float64
	Skewness          float64
	Range             float64
	Minimum           float64
	Maximum           float64
	Sum               float64
	Count             int
}

// Metric is one named entry of the battery.
type Metric struct {
	Name  string
	Short string
	Value float64
}

// Metrics lists the battery in display order.
func (s DescriptiveStats) Metrics() []Metric {
	return []Metric{
		{"Mean", "Mean", s.Mean},
		{"Standard Error", "Std Err", s.StandardError},
		{"Median", "Median", s.Median},
		{"Standard Deviation", "Std Dev", s.StandardDeviation},
		{"Sample Variance", "Variance", s.SampleVariance},
		{"Kurtosis", "Kurtosis", s.Kurtosis},
		{"Skewness", "Skewness", s.Skewness},
		{"Range", "Range", s.Range},
		{"Minimum", "Min", s.Minimum},
		{"Maximum", "Max", s.Maximum},
		{"Sum", "Sum", s.Sum},
		{"Count", "Count", float64(s.Count)},
	}
}

// Describe computes the battery over values, which must already exclude
// missing entries. Variance-based metrics use the n-1 denominator; skewness
// and kurtosis are the bias-corrected sample estimators.
func Describe(values []float64) DescriptiveStats {
	nan := math.NaN()
	n := len(values)
	s := DescriptiveStats{
		Mean: nan, StandardError: nan, Median: nan, StandardDeviation: nan,
		SampleVariance: nan, Kurtosis: nan, Skewness: nan, Range: nan,
		Minimum: nan, Maximum: nan,
		Sum:   floats.Sum(values),
		Count: n,
	}
	if n == 0 {
		return s
	}
	s.Mean = stat.Mean(values, nil)
	s.Minimum = floats.Min(values)
	s.Maximum = floats.Max(values)
	s.Range = s.Maximum - s.Minimum

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	s.Median = Quantile(sorted, 0.5)

	if n < 2 {
		return s
	}
	s.SampleVariance = stat.Variance(values, nil)
	s.StandardDeviation = math.Sqrt(s.SampleVariance)
	s.StandardError = s.StandardDeviation / math.Sqrt(float64(n))
	if n >= 3 {
		s.Skewness = 0
		if s.SampleVariance > 0 {
			s.Skewness = stat.Skew(values, nil)
		}
	}
	if n >= 4 {
		s.Kurtosis = 0
		if s.SampleVariance > 0 {
			s.Kurtosis = stat.ExKurtosis(values, nil)
		}
	}
	return s
}

// Quantile interpolates linearly between the closest ranks of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

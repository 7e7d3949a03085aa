package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"
)

// SignificanceLevel is the one-tailed alpha used for the Significant flag.
const SignificanceLevel = 0.05

// TTest is the outcome of a directional two-sample comparison.
type TTest struct {
	// Statistic is the pooled-variance t statistic of comparison minus reference.
	Statistic float64
	// TwoTailedP is the two-sided p-value of Statistic.
	TwoTailedP float64
	// PValue is TwoTailedP halved: the one-tailed p-value for comparison > reference.
	PValue float64
	DoF    float64
	N1, N2 int
	// Significant holds only when PValue is below SignificanceLevel and
	// Statistic is positive.
	Significant bool
}

// OneTailedTTest runs an independent two-sample t-test with pooled variance
// of comparison against reference. Inputs must already exclude missing values
// and may differ in length.
//
// Degenerate inputs produce sentinels instead of errors: a sample with fewer
// than two values gives NaN statistic and p-value; two constant samples give
// an infinite statistic (p 0) when their means differ and NaN when they agree.
func OneTailedTTest(comparison, reference []float64) TTest {
	nan := math.NaN()
	res := TTest{
		Statistic:  nan,
		TwoTailedP: nan,
		PValue:     nan,
		DoF:        nan,
		N1:         len(comparison),
		N2:         len(reference),
	}
	if res.N1 < 2 || res.N2 < 2 {
		return res
	}
	res.DoF = float64(res.N1 + res.N2 - 2)

	if stat.Variance(comparison, nil) == 0 && stat.Variance(reference, nil) == 0 {
		diff := stat.Mean(comparison, nil) - stat.Mean(reference, nil)
		if diff != 0 {
			res.Statistic = math.Copysign(math.Inf(1), diff)
			res.TwoTailedP = 0
		}
	} else {
		r, err := stats.TwoSampleTTest(stats.Sample{Xs: comparison}, stats.Sample{Xs: reference}, stats.LocationDiffers)
		if err != nil {
			return res
		}
		res.Statistic = r.T
		res.TwoTailedP = r.P
	}
	res.PValue = res.TwoTailedP / 2
	res.Significant = res.PValue < SignificanceLevel && res.Statistic > 0
	return res
}

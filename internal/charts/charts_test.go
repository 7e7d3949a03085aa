package charts

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxOutliersAndWhiskers(t *testing.T) {
	b := Box([]float64{4, 100, 1, 3, 2})
	require.NotNil(t, b)
	assert.Equal(t, 5, b.Count)
	assert.Equal(t, 1.0, b.Min)
	assert.Equal(t, 2.0, b.Q1)
	assert.Equal(t, 3.0, b.Median)
	assert.Equal(t, 4.0, b.Q3)
	assert.Equal(t, 100.0, b.Max)
	assert.Equal(t, 22.0, b.Mean)
	assert.Equal(t, 1.0, b.LowerWhisker)
	assert.Equal(t, 4.0, b.UpperWhisker)
	assert.Equal(t, []float64{100}, b.Outliers)

	assert.Nil(t, Box(nil))
}

func TestKDEMatchesGaussianSum(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	s := KDE(vals, 11)
	require.Equal(t, 11, s.Len())
	assert.Equal(t, 1.0, s.X[0])
	assert.Equal(t, 5.0, s.X[10])
	assert.InDelta(t, 3.0, s.X[5], 1e-12)

	bw := ScottBandwidth(vals)
	assert.InDelta(t, math.Sqrt(2.5)*math.Pow(5, -0.2), bw, 1e-12)
	want := 0.0
	for _, v := range vals {
		z := (3 - v) / bw
		want += math.Exp(-z*z/2) / (bw * math.Sqrt(2*math.Pi))
	}
	want /= float64(len(vals))
	assert.InDelta(t, want, s.Y[5], 1e-9)
	assert.InDelta(t, s.Y[0], s.Y[10], 1e-12)
}

func TestKDEDegenerate(t *testing.T) {
	assert.Equal(t, 0, KDE([]float64{7}, 100).Len())
	assert.Equal(t, 0, KDE([]float64{7, 7, 7}, 100).Len())
	assert.Equal(t, 0, KDE([]float64{1, 2}, 1).Len())
}

func TestBinCountsCoverEveryValue(t *testing.T) {
	vals := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	h := Bin(vals, 5)
	require.Len(t, h.Edges, 6)
	assert.Equal(t, []float64{2, 2, 2, 2, 2}, h.Counts)
	assert.Equal(t, 0.0, h.Edges[0])
	assert.Equal(t, 9.0, h.Edges[5])
	assert.Equal(t, float64(len(vals)), h.Total())

	h = Bin([]float64{0.3, 12.5, 7.1, 7.1, 2.2, 11.9, 0.3}, 15)
	assert.Len(t, h.Counts, 15)
	assert.Equal(t, 7.0, h.Total())
	assert.Equal(t, 2.0, h.Counts[14])
}

func TestBinConstantSample(t *testing.T) {
	h := Bin([]float64{3, 3, 3}, 15)
	assert.Equal(t, []float64{2.5, 3.5}, h.Edges)
	assert.Equal(t, []float64{3}, h.Counts)
	assert.Empty(t, Bin(nil, 15).Counts)
}

func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()
	rows := []dataset.Row{
		{"gdp": 9, "ref": 10, "cmp": 14},
		{"gdp": 8, "ref": 12, "cmp": 15},
		{"gdp": 7, "ref": 11, "cmp": 13},
		{"gdp": 6, "ref": 13, "cmp": 16},
		{"gdp": 5, "ref": 14, "cmp": 10},
		{"gdp": 4, "ref": 15, "cmp": math.NaN()},
		{"gdp": 3, "ref": 13, "cmp": 11},
		{"gdp": 2, "ref": 16, "cmp": 13},
	}
	ds := dataset.New("t", []string{"gdp", "ref", "cmp"}, rows)
	res, err := analysis.Analyze(ds, analysis.Request{RankColumn: "gdp", ReferenceColumn: "ref", ComparisonColumn: "cmp", Percentile: 50})
	require.NoError(t, err)
	return res
}

func TestBuildPanels(t *testing.T) {
	panels := Build(sampleResult(t), Options{KDEPoints: 50})
	require.Len(t, panels, 2)
	assert.Equal(t, "Top 50%", panels[0].Label)
	assert.Equal(t, "Bottom 50%", panels[1].Label)

	bottom := panels[1]
	require.Len(t, bottom.Columns, 2)
	ref, cmp := bottom.Columns[0], bottom.Columns[1]
	assert.Equal(t, "ref", ref.Column)
	assert.Equal(t, "reference", ref.Role)
	assert.Equal(t, ReferenceColor, ref.Color)
	assert.Equal(t, "comparison", cmp.Role)
	assert.Equal(t, ComparisonColor, cmp.Color)
	assert.Equal(t, 50, ref.KDE.Len())
	assert.Len(t, ref.Histogram.Counts, 15)
	assert.Equal(t, 4.0, ref.Histogram.Total())
	assert.Equal(t, 3.0, cmp.Histogram.Total())
	assert.Equal(t, 3, cmp.Box.Count)
}

func TestRenderSVG(t *testing.T) {
	panels := Build(sampleResult(t), DefaultOptions())
	var kde, hist, box bytes.Buffer
	require.NoError(t, RenderKDE(&kde, panels[0], DefaultSize))
	require.NoError(t, RenderHistogram(&hist, panels[0], Size{}))
	require.NoError(t, RenderBox(&box, panels[1], DefaultSize))
	assert.True(t, strings.Contains(kde.String(), "<svg"))
	assert.True(t, strings.Contains(hist.String(), "<svg"))
	assert.True(t, strings.Contains(box.String(), "<svg"))
	assert.Contains(t, box.String(), "Box plot: "+panels[1].Label)
	assert.Contains(t, box.String(), "ref mean")
}

func TestRenderBoxWithOutliersAndConstantColumn(t *testing.T) {
	p := Panel{Label: "Top 50%", Columns: []ColumnSeries{
		{Column: "ref", Color: ReferenceColor, Box: Box([]float64{1, 2, 3, 4, 100})},
		{Column: "cmp", Color: ComparisonColor, Box: Box([]float64{7, 7, 7})},
	}}
	var buf bytes.Buffer
	require.NoError(t, RenderBox(&buf, p, Size{Width: 400, Height: 300}))
	assert.Contains(t, buf.String(), "ref outliers")
	assert.NotContains(t, buf.String(), "cmp outliers")
}

func TestBoxOutline(t *testing.T) {
	b := &BoxSummary{Min: 0, LowerWhisker: 0, Q1: 1, Median: 2, Q3: 3, UpperWhisker: 5, Max: 9, Mean: 2.5}
	xs, ys := boxOutline(b, 1)
	require.Len(t, ys, len(xs))
	for _, x := range xs {
		assert.True(t, x >= b.LowerWhisker && x <= b.UpperWhisker, "x %v outside whiskers", x)
	}
	for _, y := range ys {
		assert.InDelta(t, 1, y, boxHalfHeight)
	}
	assert.Equal(t, b.Q1, xs[0])
	assert.Equal(t, b.LowerWhisker, xs[len(xs)-1])
	assert.Contains(t, xs, b.Median)
	assert.Contains(t, xs, b.UpperWhisker)
}

func TestRenderWithoutData(t *testing.T) {
	p := Panel{Label: "Top 5%", Columns: []ColumnSeries{{Column: "ref"}, {Column: "cmp"}}}
	var buf bytes.Buffer
	err := RenderKDE(&buf, p, DefaultSize)
	assert.True(t, errors.Is(err, ErrNoData))
	err = RenderHistogram(&buf, p, DefaultSize)
	assert.True(t, errors.Is(err, ErrNoData))
	err = RenderBox(&buf, p, DefaultSize)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestSteps(t *testing.T) {
	xs, ys := steps(Histogram{Edges: []float64{0, 1, 2}, Counts: []float64{3, 1}})
	assert.Equal(t, []float64{0, 0, 1, 1, 2, 2}, xs)
	assert.Equal(t, []float64{0, 3, 3, 1, 1, 0}, ys)
}

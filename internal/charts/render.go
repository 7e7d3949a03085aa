package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a panel has nothing to draw.
var ErrNoData = errors.New("no plottable values")

// Size is a chart canvas in pixels.
type Size struct {
	Width, Height int
}

// DefaultSize is the dashboard's chart size.
var DefaultSize = Size{Width: 600, Height: 400}

func lineStyle(hex string, fill bool) chart.Style {
	col := drawing.ColorFromHex(hex)
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
	if fill {
		st.FillColor = col.WithAlpha(64)
	}
	return st
}

// RenderKDE draws the density curves of p as SVG.
func RenderKDE(w io.Writer, p Panel, size Size) error {
	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range p.Columns {
		if c.KDE.Len() == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    c.Column,
			XValues: c.KDE.X,
			YValues: c.KDE.Y,
			Style:   lineStyle(c.Color, true),
		})
		lo = math.Min(lo, c.KDE.X[0])
		hi = math.Max(hi, c.KDE.X[c.KDE.Len()-1])
	}
	if len(series) == 0 {
		return fmt.Errorf("density chart %s: %w", p.Label, ErrNoData)
	}
	return render(w, fmt.Sprintf("Density: %s", p.Label), chart.YAxis{Name: "Density"}, series, lo, hi, size)
}

// RenderHistogram draws the bin counts of p as overlaid step outlines.
func RenderHistogram(w io.Writer, p Panel, size Size) error {
	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range p.Columns {
		h := c.Histogram
		if len(h.Counts) == 0 {
			continue
		}
		xs, ys := steps(h)
		series = append(series, chart.ContinuousSeries{
			Name:    c.Column,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(c.Color, false),
		})
		lo = math.Min(lo, h.Edges[0])
		hi = math.Max(hi, h.Edges[len(h.Edges)-1])
	}
	if len(series) == 0 {
		return fmt.Errorf("histogram %s: %w", p.Label, ErrNoData)
	}
	return render(w, fmt.Sprintf("Histogram: %s", p.Label), chart.YAxis{Name: "Count"}, series, lo, hi, size)
}

// Box geometry in y-axis units; column i sits at y = i+1.
const (
	boxHalfHeight = 0.25
	capHalfHeight = 0.12
)

// RenderBox draws one horizontal box per column of p: whiskers with caps,
// the quartile box split at the median, a dashed mean marker and the
// outliers as dots.
func RenderBox(w io.Writer, p Panel, size Size) error {
	var series []chart.Series
	var ticks []chart.Tick
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, c := range p.Columns {
		b := c.Box
		if b == nil {
			continue
		}
		y := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: y, Label: c.Column})
		xs, ys := boxOutline(b, y)
		series = append(series, chart.ContinuousSeries{
			Name:    c.Column,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(c.Color, false),
		})
		mean := lineStyle(c.Color, false)
		mean.StrokeDashArray = []float64{5, 3}
		series = append(series, chart.ContinuousSeries{
			Name:    c.Column + " mean",
			XValues: []float64{b.Mean, b.Mean},
			YValues: []float64{y - boxHalfHeight, y + boxHalfHeight},
			Style:   mean,
		})
		if len(b.Outliers) > 0 {
			oy := make([]float64, len(b.Outliers))
			for j := range oy {
				oy[j] = y
			}
			series = append(series, chart.ContinuousSeries{
				Name:    c.Column + " outliers",
				XValues: b.Outliers,
				YValues: oy,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    drawing.ColorFromHex(c.Color),
				},
			})
		}
		lo = math.Min(lo, b.Min)
		hi = math.Max(hi, b.Max)
	}
	if len(series) == 0 {
		return fmt.Errorf("box plot %s: %w", p.Label, ErrNoData)
	}
	yAxis := chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: float64(len(p.Columns) + 1)},
		Ticks: ticks,
	}
	return render(w, fmt.Sprintf("Box plot: %s", p.Label), yAxis, series, lo, hi, size)
}

// boxOutline traces the box, median and both whiskers as one polyline.
// Some edges are walked twice so the path never leaves the drawing.
func boxOutline(b *BoxSummary, y float64) (xs, ys []float64) {
	top, bot := y+boxHalfHeight, y-boxHalfHeight
	pts := [][2]float64{
		{b.Q1, bot}, {b.Q1, top}, {b.Median, top}, {b.Median, bot}, {b.Q1, bot},
		{b.Q3, bot}, {b.Q3, top}, {b.Median, top}, {b.Q3, top}, {b.Q3, y},
		{b.UpperWhisker, y}, {b.UpperWhisker, y + capHalfHeight}, {b.UpperWhisker, y - capHalfHeight}, {b.UpperWhisker, y},
		{b.Q3, y}, {b.Q3, bot}, {b.Q1, bot}, {b.Q1, y},
		{b.LowerWhisker, y}, {b.LowerWhisker, y + capHalfHeight}, {b.LowerWhisker, y - capHalfHeight},
	}
	xs, ys = make([]float64, len(pts)), make([]float64, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = pt[0], pt[1]
	}
	return xs, ys
}

// steps traces the outline of h starting and ending at zero height.
func steps(h Histogram) (xs, ys []float64) {
	xs = append(xs, h.Edges[0])
	ys = append(ys, 0)
	for i, c := range h.Counts {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, c, c)
	}
	xs = append(xs, h.Edges[len(h.Edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

func render(w io.Writer, title string, yAxis chart.YAxis, series []chart.Series, lo, hi float64, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	// go-chart refuses a zero-width axis.
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	ch := chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: "Value", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render %q: %w", title, err)
	}
	return nil
}

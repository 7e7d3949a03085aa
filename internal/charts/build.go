package charts

import (
	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
)

// Series colours, as hex without the leading '#'.
const (
	ReferenceColor  = "1E88E5"
	ComparisonColor = "FF8C00"
)

// Options controls series resolution.
type Options struct {
	KDEPoints     int
	HistogramBins int
}

// DefaultOptions matches the dashboard: a 1000-point density and 15 bins.
func DefaultOptions() Options {
	return Options{KDEPoints: 1000, HistogramBins: 15}
}

// ColumnSeries is every plot series of one column inside one group.
type ColumnSeries struct {
	Column    string      `json:"column"`
	Role      string      `json:"role"`
	Color     string      `json:"color"`
	Box       *BoxSummary `json:"box"`
	KDE       Series      `json:"kde"`
	Histogram Histogram   `json:"histogram"`
}

// Panel groups the series of one group, reference column first.
type Panel struct {
	Label   string         `json:"label"`
	Size    int            `json:"size"`
	Columns []ColumnSeries `json:"columns"`
}

// Build derives one Panel per group of res, in res.Order.
func Build(res *analysis.Result, opt Options) []Panel {
	if opt.KDEPoints == 0 {
		opt.KDEPoints = DefaultOptions().KDEPoints
	}
	if opt.HistogramBins == 0 {
		opt.HistogramBins = DefaultOptions().HistogramBins
	}
	panels := make([]Panel, 0, len(res.Order))
	for _, label := range res.Order {
		g := res.Groups[label]
		if g == nil {
			continue
		}
		panels = append(panels, Panel{
			Label: label,
			Size:  g.Size(),
			Columns: []ColumnSeries{
				columnSeries(g.Rows, g.ReferenceColumn, "reference", ReferenceColor, opt),
				columnSeries(g.Rows, g.ComparisonColumn, "comparison", ComparisonColor, opt),
			},
		})
	}
	return panels
}

func columnSeries(rows []dataset.Row, col, role, color string, opt Options) ColumnSeries {
	vals := dataset.Values(rows, col)
	return ColumnSeries{
		Column:    col,
		Role:      role,
		Color:     color,
		Box:       Box(vals),
		KDE:       KDE(vals, opt.KDEPoints),
		Histogram: Bin(vals, opt.HistogramBins),
	}
}

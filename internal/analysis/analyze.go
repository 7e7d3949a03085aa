// Package analysis compares a reference and a comparison column inside the
// two groups produced by a percentile split.
package analysis

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
	"github.com/KaramelBytes/splitcmp-cli/internal/split"
)

// Request selects the columns and the split point of one analysis pass.
type Request struct {
	RankColumn       string  `json:"rank_column" yaml:"rank_column"`
	ReferenceColumn  string  `json:"reference_column" yaml:"reference_column"`
	ComparisonColumn string  `json:"comparison_column" yaml:"comparison_column"`
	Percentile       float64 `json:"percentile" yaml:"percentile"`
}

// ErrSameColumn is returned when the reference and comparison columns are
// the same column.
var ErrSameColumn = errors.New("reference and comparison columns must differ")

// Validate checks the parts of req that do not depend on a dataset.
func (req Request) Validate() error {
	if req.ReferenceColumn == req.ComparisonColumn {
		return fmt.Errorf("%w: both are %q", ErrSameColumn, req.ReferenceColumn)
	}
	return nil
}

// GroupAnalysisResult is the comparison bound to one group.
type GroupAnalysisResult struct {
	Label            string
	Rows             []dataset.Row
	ReferenceColumn  string
	ComparisonColumn string
	TTest
	Reference  DescriptiveStats
	Comparison DescriptiveStats
}

// Size reports the number of rows in the group, missing values included.
func (g *GroupAnalysisResult) Size() int { return len(g.Rows) }

// StatsFor returns the battery for col, if col is one of the analyzed columns.
func (g *GroupAnalysisResult) StatsFor(col string) (DescriptiveStats, bool) {
	switch col {
	case g.ReferenceColumn:
		return g.Reference, true
	case g.ComparisonColumn:
		return g.Comparison, true
	}
	return DescriptiveStats{}, false
}

// Result maps each group label to its analysis. Order lists the labels
// upper group first.
type Result struct {
	Request Request
	Dataset string
	Rows    int
	Cutoff  int
	Order   []string
	Groups  map[string]*GroupAnalysisResult
}

// Group returns the result at position i of Order.
func (r *Result) Group(i int) *GroupAnalysisResult {
	if r == nil || i < 0 || i >= len(r.Order) {
		return nil
	}
	return r.Groups[r.Order[i]]
}

// AnalyzeGroup runs the t-test and the descriptive battery for one group.
func AnalyzeGroup(g split.Group, referenceColumn, comparisonColumn string) *GroupAnalysisResult {
	ref := dataset.Values(g.Rows, referenceColumn)
	cmp := dataset.Values(g.Rows, comparisonColumn)
	return &GroupAnalysisResult{
		Label:            g.Label,
		Rows:             g.Rows,
		ReferenceColumn:  referenceColumn,
		ComparisonColumn: comparisonColumn,
		TTest:            OneTailedTTest(cmp, ref),
		Reference:        Describe(ref),
		Comparison:       Describe(cmp),
	}
}

// Analyzer runs analysis passes. It holds no state between calls and may be
// shared by concurrent callers.
type Analyzer struct {
	log *zap.Logger
}

// NewAnalyzer returns an Analyzer logging to log (nil disables logging).
func NewAnalyzer(log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{log: log}
}

// Analyze splits ds at req.Percentile and analyzes both groups. It either
// returns results for both groups or an error.
func (a *Analyzer) Analyze(ds *dataset.Dataset, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ds.Name, err)
	}
	if err := ds.Require(req.RankColumn, req.ReferenceColumn, req.ComparisonColumn); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ds.Name, err)
	}
	upper, lower, err := split.Split(ds, req.RankColumn, req.Percentile)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ds.Name, err)
	}
	res := &Result{
		Request: req,
		Dataset: ds.Name,
		Rows:    ds.Len(),
		Cutoff:  upper.Len(),
		Groups:  make(map[string]*GroupAnalysisResult, 2),
	}
	for _, g := range []split.Group{upper, lower} {
		gr := AnalyzeGroup(g, req.ReferenceColumn, req.ComparisonColumn)
		res.Order = append(res.Order, g.Label)
		res.Groups[g.Label] = gr
		a.log.Debug("group analyzed",
			zap.String("group", g.Label),
			zap.Int("rows", g.Len()),
			zap.Float64("statistic", gr.Statistic),
			zap.Float64("pvalue", gr.PValue),
			zap.Bool("significant", gr.Significant),
		)
	}
	return res, nil
}

// Analyze is a convenience wrapper around a silent Analyzer.
func Analyze(ds *dataset.Dataset, req Request) (*Result, error) {
	return NewAnalyzer(nil).Analyze(ds, req)
}

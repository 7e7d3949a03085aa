package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Markdown renders the result as a compact text report: a hypothesis test
// block and a descriptive statistics table per group.
func (r *Result) Markdown() string {
	var b strings.Builder
	req := r.Request
	b.WriteString("[SPLIT ANALYSIS]\n")
	if r.Dataset != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Dataset))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Split: %s at %s%% (cutoff %d)\n", req.RankColumn, formatPct(req.Percentile), r.Cutoff))
	b.WriteString(fmt.Sprintf("Hypothesis: %s > %s (one-tailed two-sample t-test, alpha %.2f)\n", req.ComparisonColumn, req.ReferenceColumn, SignificanceLevel))

	for _, label := range r.Order {
		g := r.Groups[label]
		if g == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n## %s (n=%d)\n", label, g.Size()))
		b.WriteString("\n[HYPOTHESIS TEST]\n")
		b.WriteString("| Measure | Result |\n| --- | --- |\n")
		b.WriteString(fmt.Sprintf("| T-statistic | %s |\n", formatFloat(g.Statistic, 4)))
		b.WriteString(fmt.Sprintf("| One-tailed p-value | %s |\n", formatFloat(g.PValue, 4)))
		b.WriteString(fmt.Sprintf("| Significant | %s |\n", yesNo(g.Significant)))
		b.WriteString(fmt.Sprintf("| Hypothesis (%s > %s) | %s |\n", safeVal(g.ComparisonColumn), safeVal(g.ReferenceColumn), trueFalse(g.Significant)))

		b.WriteString("\n[DESCRIPTIVE STATISTICS]\n")
		b.WriteString(fmt.Sprintf("| Statistic | %s | %s |\n| --- | --- | --- |\n", safeVal(g.ReferenceColumn), safeVal(g.ComparisonColumn)))
		ref, cmp := g.Reference.Metrics(), g.Comparison.Metrics()
		for i := range ref {
			if ref[i].Name == "Count" {
				b.WriteString(fmt.Sprintf("| %s | %d | %d |\n", ref[i].Short, g.Reference.Count, g.Comparison.Count))
				continue
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", ref[i].Short, formatFloat(ref[i].Value, 2), formatFloat(cmp[i].Value, 2)))
		}
	}
	return b.String()
}

// SweepTable renders one line per group per percentile.
func SweepTable(results []*Result) string {
	var b strings.Builder
	b.WriteString("| Percentile | Group | n | T-statistic | One-tailed p | Significant |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range results {
		for _, label := range r.Order {
			g := r.Groups[label]
			b.WriteString(fmt.Sprintf("| %s%% | %s | %d | %s | %s | %s |\n",
				formatPct(r.Request.Percentile), label, g.Size(),
				formatFloat(g.Statistic, 4), formatFloat(g.PValue, 4), yesNo(g.Significant)))
		}
	}
	return b.String()
}

// formatFloat prints v with prec decimals, or N/A for NaN.
func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func formatPct(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func trueFalse(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

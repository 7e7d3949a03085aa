package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/splitcmp-cli/internal/config"
	"github.com/KaramelBytes/splitcmp-cli/internal/dataset"
	"github.com/KaramelBytes/splitcmp-cli/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dataFlags are the loader and column flags shared by every command that
// reads a dataset. Unset flags fall back to the config.
type dataFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int

	rank       string
	ref        string
	cmp        string
	percentile float64
}

func (f *dataFlags) register(cmd *cobra.Command, withPercentile bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	fl.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fl.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fl.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	fl.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fl.IntVar(&f.maxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	fl.StringVar(&f.rank, "rank", "", "rank column used for the split (default from config)")
	fl.StringVar(&f.ref, "ref", "", "reference column (default from config)")
	fl.StringVar(&f.cmp, "cmp", "", "comparison column (default from config)")
	if withPercentile {
		fl.Float64Var(&f.percentile, "percentile", 0, "split percentile; the top group holds floor(n*p/100) rows (default from config)")
	}
}

// options resolves loader options from flags, then config.
func (f *dataFlags) options(c *cfgpkg.Global) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	opt.MaxRows = f.maxRows
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	delim, dec, thou := f.delimiter, f.decimal, f.thousands
	if c != nil {
		delim = firstNonEmpty(delim, c.Delimiter)
		dec = firstNonEmpty(dec, c.DecimalSeparator)
		thou = firstNonEmpty(thou, c.ThousandsSeparator)
	}
	if delim != "" {
		switch delim {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
		}
	}
	switch strings.ToLower(strings.TrimSpace(dec)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", dec)
	}
	switch strings.ToLower(strings.TrimSpace(thou)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thou)
	}
	return opt, nil
}

func configRequest(c *cfgpkg.Global) analysis.Request {
	return analysis.Request{
		RankColumn:       c.RankColumn,
		ReferenceColumn:  c.ReferenceColumn,
		ComparisonColumn: c.ComparisonColumn,
		Percentile:       c.Percentile,
	}
}

// request resolves the analysis request from flags, then base.
func (f *dataFlags) request(cmd *cobra.Command, base analysis.Request) analysis.Request {
	req := base
	if f.rank != "" {
		req.RankColumn = f.rank
	}
	if f.ref != "" {
		req.ReferenceColumn = f.ref
	}
	if f.cmp != "" {
		req.ComparisonColumn = f.cmp
	}
	if fl := cmd.Flags().Lookup("percentile"); fl != nil && fl.Changed {
		req.Percentile = f.percentile
	}
	return req
}

// load reads the dataset at path and resolves the request for cmd:
// flags, then the defaults of p (may be nil), then config.
func (f *dataFlags) load(cmd *cobra.Command, path string, p *project.Project) (*dataset.Dataset, analysis.Request, error) {
	c, err := settings()
	if err != nil {
		return nil, analysis.Request{}, err
	}
	opt, err := f.options(c)
	if err != nil {
		return nil, analysis.Request{}, err
	}
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, analysis.Request{}, err
	}
	logger.Debug("dataset loaded",
		zap.String("dataset", ds.Name),
		zap.Int("rows", ds.Len()),
		zap.Strings("columns", ds.Columns),
	)
	return ds, f.request(cmd, p.WithDefaults(configRequest(c))), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

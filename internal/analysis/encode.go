package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Float encodes NaN and ±Inf as null, which plain encoding/json rejects.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f Float) MarshalYAML() (interface{}, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return v, nil
}

// UnmarshalJSON reads null back as NaN.
func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("decode float %s: %w", b, err)
	}
	*f = Float(v)
	return nil
}

// requestDoc is the wire form of Request. The core accepts any percentile,
// so a non-finite one must still encode.
type requestDoc struct {
	RankColumn       string `json:"rank_column" yaml:"rank_column"`
	ReferenceColumn  string `json:"reference_column" yaml:"reference_column"`
	ComparisonColumn string `json:"comparison_column" yaml:"comparison_column"`
	Percentile       Float  `json:"percentile" yaml:"percentile"`
}

func (r Request) doc() requestDoc {
	return requestDoc{
		RankColumn:       r.RankColumn,
		ReferenceColumn:  r.ReferenceColumn,
		ComparisonColumn: r.ComparisonColumn,
		Percentile:       Float(r.Percentile),
	}
}

func (r Request) MarshalJSON() ([]byte, error) { return json.Marshal(r.doc()) }

func (r Request) MarshalYAML() (interface{}, error) { return r.doc(), nil }

func (r *Request) UnmarshalJSON(b []byte) error {
	var d requestDoc
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	*r = Request{
		RankColumn:       d.RankColumn,
		ReferenceColumn:  d.ReferenceColumn,
		ComparisonColumn: d.ComparisonColumn,
		Percentile:       float64(d.Percentile),
	}
	return nil
}

// StatsDoc is the wire form of DescriptiveStats.
type StatsDoc struct {
	Mean              Float `json:"mean" yaml:"mean"`
	StandardError     Float `json:"standard_error" yaml:"standard_error"`
	Median            Float `json:"median" yaml:"median"`
	StandardDeviation Float `json:"standard_deviation" yaml:"standard_deviation"`
	SampleVariance    Float `json:"sample_variance" yaml:"sample_variance"`
	Kurtosis          Float `json:"kurtosis" yaml:"kurtosis"`
	Skewness          Float `json:"skewness" yaml:"skewness"`
	Range             Float `json:"range" yaml:"range"`
	Minimum           Float `json:"minimum" yaml:"minimum"`
	Maximum           Float `json:"maximum" yaml:"maximum"`
	Sum               Float `json:"sum" yaml:"sum"`
	Count             int   `json:"count" yaml:"count"`
}

// GroupDoc is the wire form of GroupAnalysisResult.
type GroupDoc struct {
	Label       string              `json:"label" yaml:"label"`
	Size        int                 `json:"size" yaml:"size"`
	Statistic   Float               `json:"statistic" yaml:"statistic"`
	PValue      Float               `json:"pvalue" yaml:"pvalue"`
	TwoTailedP  Float               `json:"two_tailed_pvalue" yaml:"two_tailed_pvalue"`
	DoF         Float               `json:"dof" yaml:"dof"`
	Significant bool                `json:"significant" yaml:"significant"`
	Stats       map[string]StatsDoc `json:"stats" yaml:"stats"`
	Rows        []map[string]Float  `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// ResultDoc is the wire form of Result: groups keyed by label plus their order.
type ResultDoc struct {
	Dataset string              `json:"dataset" yaml:"dataset"`
	Rows    int                 `json:"rows" yaml:"rows"`
	Cutoff  int                 `json:"cutoff" yaml:"cutoff"`
	Request Request             `json:"request" yaml:"request"`
	Order   []string            `json:"order" yaml:"order"`
	Groups  map[string]GroupDoc `json:"groups" yaml:"groups"`
}

func statsDoc(s DescriptiveStats) StatsDoc {
	return StatsDoc{
		Mean:              Float(s.Mean),
		StandardError:     Float(s.StandardError),
		Median:            Float(s.Median),
		StandardDeviation: Float(s.StandardDeviation),
		SampleVariance:    Float(s.SampleVariance),
		Kurtosis:          Float(s.Kurtosis),
		Skewness:          Float(s.Skewness),
		Range:             Float(s.Range),
		Minimum:           Float(s.Minimum),
		Maximum:           Float(s.Maximum),
		Sum:               Float(s.Sum),
		Count:             s.Count,
	}
}

// Doc converts the result to its wire form. Group rows are included only
// when withRows is set.
func (r *Result) Doc(withRows bool) ResultDoc {
	doc := ResultDoc{
		Dataset: r.Dataset,
		Rows:    r.Rows,
		Cutoff:  r.Cutoff,
		Request: r.Request,
		Order:   r.Order,
		Groups:  make(map[string]GroupDoc, len(r.Groups)),
	}
	for label, g := range r.Groups {
		gd := GroupDoc{
			Label:       label,
			Size:        g.Size(),
			Statistic:   Float(g.Statistic),
			PValue:      Float(g.PValue),
			TwoTailedP:  Float(g.TwoTailedP),
			DoF:         Float(g.DoF),
			Significant: g.Significant,
			Stats: map[string]StatsDoc{
				g.ReferenceColumn:  statsDoc(g.Reference),
				g.ComparisonColumn: statsDoc(g.Comparison),
			},
		}
		if withRows {
			gd.Rows = make([]map[string]Float, len(g.Rows))
			for i, row := range g.Rows {
				m := make(map[string]Float, len(row))
				for k, v := range row {
					m[k] = Float(v)
				}
				gd.Rows[i] = m
			}
		}
		doc.Groups[label] = gd
	}
	return doc
}

// JSON encodes the result with indentation.
func (r *Result) JSON(withRows bool) ([]byte, error) {
	return json.MarshalIndent(r.Doc(withRows), "", "  ")
}

// YAML encodes the result as YAML.
func (r *Result) YAML(withRows bool) ([]byte, error) {
	return yaml.Marshal(r.Doc(withRows))
}

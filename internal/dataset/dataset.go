package dataset

import (
	"math"
	"strings"
)

// Row maps a column name to its numeric value. An absent key or a NaN value
// marks the cell as missing.
type Row map[string]float64

// Value returns the cell value for col and whether it is present.
func (r Row) Value(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Dataset is an in-memory table loaded once and treated as read-only by
// every analysis pass.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []Row

	index map[string]struct{}
}

// New builds a Dataset over the given rows. The rows are not copied.
func New(name string, columns []string, rows []Row) *Dataset {
	d := &Dataset{Name: name, Columns: columns, Rows: rows}
	d.index = make(map[string]struct{}, len(columns))
	for _, c := range columns {
		d.index[c] = struct{}{}
	}
	return d
}

// Len reports the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Has reports whether col is part of the dataset schema.
func (d *Dataset) Has(col string) bool {
	if d == nil {
		return false
	}
	if d.index == nil {
		for _, c := range d.Columns {
			if c == col {
				return true
			}
		}
		return false
	}
	_, ok := d.index[col]
	return ok
}

// Require returns a *MissingColumnError for the first column not in the schema.
func (d *Dataset) Require(cols ...string) error {
	for _, c := range cols {
		if !d.Has(c) {
			var avail []string
			if d != nil {
				avail = append(avail, d.Columns...)
			}
			return &MissingColumnError{Column: c, Available: avail}
		}
	}
	return nil
}

// Values collects the non-missing values of col across rows, in row order.
func Values(rows []Row, col string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Value(col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Missing counts rows where col has no value.
func Missing(rows []Row, col string) int {
	n := 0
	for _, r := range rows {
		if _, ok := r.Value(col); !ok {
			n++
		}
	}
	return n
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

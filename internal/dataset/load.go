package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Options controls how tabular files are turned into a Dataset.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for dataset loading.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Load reads a CSV/TSV or XLSX file, choosing the reader by extension.
func Load(path string, opt Options) (*Dataset, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited file with a header row. Cells that are empty or
// not numeric are stored as missing.
func LoadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(filepath.Base(path), nil, nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	b := newBuilder(filepath.Base(path), header, opt)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", b.rows+1, err)
		}
		if !b.add(rec) {
			break
		}
	}
	return b.dataset(), nil
}

// builder turns string records into typed rows; shared by the CSV and XLSX readers.
type builder struct {
	name    string
	columns []string
	opt     Options
	out     []Row
	rows    int
	maxRows int

	// storedNumbers marks cells that hold numbers in invariant form, as
	// spreadsheet cells do; locale parsing is only the fallback for text.
	storedNumbers bool
}

func newBuilder(name string, header []string, opt Options) *builder {
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		n := safeName(h)
		if k, dup := seen[n]; dup {
			seen[n] = k + 1
			n = fmt.Sprintf("%s.%d", n, k)
		} else {
			seen[n] = 1
		}
		cols[i] = n
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	return &builder{name: name, columns: cols, opt: opt, maxRows: maxRows}
}

// add converts one record; it returns false once MaxRows is reached.
func (b *builder) add(rec []string) bool {
	if b.rows >= b.maxRows {
		return false
	}
	b.rows++
	row := make(Row, len(b.columns))
	for j, col := range b.columns {
		if j >= len(rec) {
			break
		}
		v := strings.TrimSpace(rec[j])
		if v == "" {
			continue
		}
		if x, ok := b.number(v); ok {
			row[col] = x
		}
	}
	b.out = append(b.out, row)
	return true
}

func (b *builder) number(v string) (float64, bool) {
	if b.storedNumbers {
		if x, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(x) && !math.IsInf(x, 0) {
			return x, true
		}
	}
	return parseNumeric(v, b.opt)
}

func (b *builder) dataset() *Dataset {
	return New(b.name, b.columns, b.out)
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}

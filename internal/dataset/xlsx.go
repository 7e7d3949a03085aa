package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the sheet selected by opt.SheetName (or the 1-based
// opt.SheetIndex) of an .xlsx workbook. The first row is the header.
func LoadXLSX(path string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%w in workbook '%s'", err, name)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	// Raw values keep numeric cells in their stored form, independent of
	// the number format applied in the workbook.
	raw := excelize.Options{RawCellValue: true}
	var b *builder
	for rows.Next() {
		cells, err := rows.Columns(raw)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s row %d: %w", sheet, rowCount(b)+2, err)
		}
		// Gaps in the sheet read as empty rows, like blank CSV lines.
		if len(cells) == 0 {
			continue
		}
		if b == nil {
			b = newBuilder(name, cells, opt)
			b.storedNumbers = true
			continue
		}
		if !b.add(cells) {
			break
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if b == nil {
		return New(name, nil, nil), nil
	}
	return b.dataset(), nil
}

// pickSheet resolves a sheet by case-insensitive name, falling back to the
// 1-based index when name is empty.
func pickSheet(sheets []string, name string, index int) (string, error) {
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found (available sheets: %s)", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}

func rowCount(b *builder) int {
	if b == nil {
		return -1
	}
	return b.rows
}

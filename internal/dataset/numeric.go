package dataset

import (
	"math"
	"strconv"
	"strings"
)

// parseNumeric reads a measurement cell. Besides plain numbers it accepts
// locale separators ("1.234,5", "1,234.5", "1 234"), a percent sign (dropped,
// not scaled), currency symbols, the Unicode minus and accounting negatives
// such as "(1,200)". Results that are not finite count as missing.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw, neg, ok := stripDecorations(s)
	if !ok {
		return 0, false
	}
	dec, thou := separators(raw, opt)
	f, err := strconv.ParseFloat(normalizeSeparators(raw, dec, thou), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// stripDecorations removes unit and currency marks and unwraps a
// parenthesised negative.
func stripDecorations(s string) (raw string, neg, ok bool) {
	raw = strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '%', '$', '\u20AC', '\u00A3', '\u00A5':
			return -1
		case '\u00A0', '\u202F':
			return ' '
		case '\u2212':
			return '-'
		}
		return r
	}, s))
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
		if strings.HasPrefix(raw, "-") || strings.HasPrefix(raw, "+") {
			return "", false, false
		}
		neg = true
	}
	return raw, neg, raw != ""
}

// separators returns the decimal and thousands runes for raw. Explicit
// options win; otherwise the rightmost of ',' and '.' is the decimal point,
// unless it repeats, in which case it groups thousands.
func separators(raw string, opt Options) (dec, thou rune) {
	if opt.DecimalSeparator != 0 {
		return opt.DecimalSeparator, opt.ThousandsSeparator
	}
	c, d := strings.LastIndexByte(raw, ','), strings.LastIndexByte(raw, '.')
	switch {
	case strings.Count(raw, ",") > 1:
		return '.', ','
	case strings.Count(raw, ".") > 1:
		return ',', '.'
	case c >= 0 && d >= 0 && c > d:
		return ',', '.'
	case c >= 0 && d >= 0:
		return '.', ','
	case c >= 0:
		return ',', 0
	}
	return '.', 0
}

// normalizeSeparators rewrites raw into strconv's form. Spaces always group
// digits; with no thousands rune every non-decimal separator is dropped.
func normalizeSeparators(raw string, dec, thou rune) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == dec:
			return '.'
		case r == ' ' || r == thou:
			return -1
		case thou == 0 && (r == ',' || r == '.'):
			return -1
		}
		return r
	}, raw)
}

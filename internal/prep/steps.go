package prep

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fundingdash/internal/table"
)

// MissingColumnError names a required column the input does not have.
type MissingColumnError = table.MissingColumnError

// ErrMissingColumn matches any MissingColumnError with errors.Is.
var ErrMissingColumn = table.ErrMissingColumn

var spaceRun = regexp.MustCompile(` +`)

// Imputation describes one fill-missing step.
type Imputation struct {
	Column string
	// Filled is the number of cells that were missing and now hold Value.
	Filled int
	Value  table.Value
	// Defined is false when no fill value exists, e.g. the mean of a column with no numbers.
	Defined bool
}

// NormalizeLabel trims the label and collapses each run of spaces to one underscore.
func NormalizeLabel(label string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(label), "_")
}

// NormalizeColumns renames every column with NormalizeLabel.
func NormalizeColumns(t *table.Table) (*table.Table, error) {
	return t.Rename(NormalizeLabel)
}

// DropColumns removes the named columns. A name the table lacks is a
// *MissingColumnError and nothing is dropped.
func DropColumns(t *table.Table, names ...string) (*table.Table, error) {
	return t.Drop(names...)
}

// ParseAmount strips currency symbols and thousands separators and parses the rest.
// "$1,200" and "1200" both give 1200. Empty, unparseable and NaN inputs give
// false, as do hexadecimal forms such as 0x1p4.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(raw))
	if s == "" || isHex(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// CoerceAmount converts the named column to numbers. Cells that do not parse
// become missing and are counted in unparsed. Numeric cells are kept as they are.
func CoerceAmount(t *table.Table, column string) (out *table.Table, unparsed int, err error) {
	out, err = t.Map(column, func(v table.Value) table.Value {
		switch v.Kind() {
		case table.Number:
			return v
		case table.Integer:
			f, _ := v.AsFloat()
			return table.Num(f)
		case table.String:
			s, _ := v.AsString()
			if f, ok := ParseAmount(s); ok {
				return table.Num(f)
			}
			unparsed++
		}
		return table.Null()
	})
	return out, unparsed, err
}

// Mean returns the arithmetic mean of the numeric cells of a column.
// ok is false when the column holds no numbers.
func Mean(t *table.Table, column string) (mean float64, ok bool, err error) {
	var sum float64
	var n int
	err = t.Scan(column, func(_ int, v table.Value) {
		if f, isNum := v.AsFloat(); isNum {
			sum += f
			n++
		}
	})
	if err != nil || n == 0 {
		return 0, false, err
	}
	return sum / float64(n), true, nil
}

// ImputeMean fills missing cells of the column with the mean of its numeric
// cells. With no numeric cell the table is returned unchanged.
func ImputeMean(t *table.Table, column string) (*table.Table, Imputation, error) {
	mean, ok, err := Mean(t, column)
	if err != nil {
		return nil, Imputation{Column: column}, err
	}
	if !ok {
		return t, Imputation{Column: column}, nil
	}
	return ImputeConstant(t, column, table.Num(mean))
}

// ImputeConstant fills missing cells of the column with value.
func ImputeConstant(t *table.Table, column string, value table.Value) (*table.Table, Imputation, error) {
	imp := Imputation{Column: column, Value: value, Defined: true}
	out, err := t.Map(column, func(v table.Value) table.Value {
		if v.IsMissing() {
			imp.Filled++
			return value
		}
		return v
	})
	if err != nil {
		return nil, Imputation{Column: column}, err
	}
	return out, imp, nil
}

// ParseYear parses raw with layout and returns the year.
func ParseYear(raw, layout string) (int, bool) {
	ts, err := time.Parse(layout, strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return ts.Year(), true
}

// ExtractYear replaces every date in the column with its year. Dates that do
// not parse with layout become missing and are counted in unparsed. Integer
// cells are treated as years already extracted.
func ExtractYear(t *table.Table, column, layout string) (out *table.Table, unparsed int, err error) {
	out, err = t.Map(column, func(v table.Value) table.Value {
		switch v.Kind() {
		case table.Integer:
			return v
		case table.String:
			s, _ := v.AsString()
			if year, ok := ParseYear(s, layout); ok {
				return table.Int(year)
			}
			unparsed++
		case table.Number:
			unparsed++
		}
		return table.Null()
	})
	return out, unparsed, err
}

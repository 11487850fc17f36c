package table

import (
	"math"
	"strconv"
)

// Kind identifies what a cell holds.
type Kind uint8

const (
	// Missing is the missing marker: an absent or unparseable value.
	Missing Kind = iota
	// String cells hold raw or categorical text.
	String
	// Number cells hold a float64.
	Number
	// Integer cells hold an int (used for extracted years).
	Integer
)

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	default:
		return "unknown"
	}
}

// Value is a single immutable table cell.
// The zero Value is the missing marker.
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int
}

// Null returns the missing marker.
func Null() Value { return Value{} }

// Str returns a string cell.
func Str(s string) Value { return Value{kind: String, s: s} }

// Num returns a numeric cell. NaN is stored as the missing marker.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: Number, f: f}
}

// Int returns an integer cell.
func Int(i int) Value { return Value{kind: Integer, i: i} }

// Kind reports the cell kind.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == Missing }

// AsString returns the text of a String cell.
func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// AsFloat returns the numeric value of a Number or Integer cell.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case Number:
		return v.f, true
	case Integer:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsInt returns the value of an Integer cell.
func (v Value) AsInt() (int, bool) {
	if v.kind != Integer {
		return 0, false
	}
	return v.i, true
}

// Format renders the cell for text output. Missing cells render as "".
// Numbers use the shortest representation that round-trips, so output is deterministic.
func (v Value) Format() string {
	switch v.kind {
	case String:
		return v.s
	case Number:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case Integer:
		return strconv.Itoa(v.i)
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same kind and value.
// Two missing markers are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case String:
		return v.s == o.s
	case Number:
		return v.f == o.f
	case Integer:
		return v.i == o.i
	default:
		return true
	}
}

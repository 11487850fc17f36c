package table

import (
	"fmt"
)

// Column is a named, ordered run of cells.
type Column struct {
	Name   string
	Values []Value
}

// NullCount is the number of missing cells in one column.
type NullCount struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// Table is an immutable column-oriented table.
// Every transforming method returns a new Table and leaves the receiver untouched.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table from columns. Column slices are copied.
func New(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		if i == 0 {
			t.rows = len(c.Values)
		} else if len(c.Values) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d",
				ErrLengthMismatch, c.Name, len(c.Values), t.rows)
		}
		t.index[c.Name] = i
		t.columns = append(t.columns, Column{Name: c.Name, Values: cloneValues(c.Values)})
	}
	return t, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.columns) }

// ColumnNames returns the labels in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the table has a column with the given label.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, &MissingColumnError{Name: name}
	}
	c := t.columns[i]
	return Column{Name: c.Name, Values: cloneValues(c.Values)}, nil
}

// Scan calls fn for every cell of the named column in row order without copying.
func (t *Table) Scan(name string, fn func(row int, v Value)) error {
	i, ok := t.index[name]
	if !ok {
		return &MissingColumnError{Name: name}
	}
	for r, v := range t.columns[i].Values {
		fn(r, v)
	}
	return nil
}

// Cell returns one cell.
func (t *Table) Cell(row int, name string) (Value, error) {
	i, ok := t.index[name]
	if !ok {
		return Value{}, &MissingColumnError{Name: name}
	}
	if row < 0 || row >= t.rows {
		return Value{}, fmt.Errorf("row %d out of range [0,%d)", row, t.rows)
	}
	return t.columns[i].Values[row], nil
}

// Rows returns the table as row-major cells in column order.
func (t *Table) Rows() [][]Value {
	out := make([][]Value, t.rows)
	for r := 0; r < t.rows; r++ {
		row := make([]Value, len(t.columns))
		for c, col := range t.columns {
			row[c] = col.Values[r]
		}
		out[r] = row
	}
	return out
}

// Rename returns a table whose labels are fn(label).
func (t *Table) Rename(fn func(string) string) (*Table, error) {
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = Column{Name: fn(c.Name), Values: c.Values}
	}
	return New(cols...)
}

// Drop returns a table without the named columns.
// It fails on the first name the table does not have.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !t.Has(n) {
			return nil, &MissingColumnError{Name: n}
		}
		drop[n] = struct{}{}
	}
	cols := make([]Column, 0, len(t.columns))
	for _, c := range t.columns {
		if _, ok := drop[c.Name]; ok {
			continue
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// Map returns a table with the named column replaced by fn applied to each cell.
func (t *Table) Map(name string, fn func(Value) Value) (*Table, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &MissingColumnError{Name: name}
	}
	src := t.columns[i].Values
	mapped := make([]Value, len(src))
	for r, v := range src {
		mapped[r] = fn(v)
	}
	return t.replace(i, mapped)
}

// FillMissing returns a table where missing cells of the named column become fill.
func (t *Table) FillMissing(name string, fill Value) (*Table, error) {
	return t.Map(name, func(v Value) Value {
		if v.IsMissing() {
			return fill
		}
		return v
	})
}

// NullCounts returns the per-column missing counts in column order.
func (t *Table) NullCounts() []NullCount {
	out := make([]NullCount, len(t.columns))
	for i, c := range t.columns {
		n := 0
		for _, v := range c.Values {
			if v.IsMissing() {
				n++
			}
		}
		out[i] = NullCount{Column: c.Name, Missing: n}
	}
	return out
}

// Equal reports whether both tables have the same labels and cells in the same order.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name != oc.Name {
			return false
		}
		for r, v := range c.Values {
			if !v.Equal(oc.Values[r]) {
				return false
			}
		}
	}
	return true
}

func (t *Table) replace(i int, values []Value) (*Table, error) {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	cols[i] = Column{Name: t.columns[i].Name, Values: values}
	return New(cols...)
}

func cloneValues(v []Value) []Value {
	out := make([]Value, len(v))
	copy(out, v)
	return out
}

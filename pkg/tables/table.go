// Package tables provides the in-memory tabular data model shared by the
// mergetab pipeline: named columns of typed, nullable cells, positionally
// aligned into rows.
//
// A cell value is one of nil (null), string, int64, float64, bool, or
// time.Time. Tables are treated as value-like artifacts: operations that
// change a table return a new one and never mutate their receiver.
package tables

import (
	"github.com/mergetab/mergetab/pkg/errors"
)

// Value is a single table cell. nil marks a null/missing value.
type Value = any

// Column is a named, ordered sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// NewColumn creates a column from a name and its cells.
func NewColumn(name string, values ...Value) Column {
	return Column{Name: name, Values: values}
}

// StringColumn creates a string-typed column. Empty strings are kept as-is;
// use nil cells via NewColumn for nulls.
func StringColumn(name string, values ...string) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Values: cells}
}

// IntColumn creates an int64-typed column.
func IntColumn(name string, values ...int64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{Name: name, Values: cells}
}

// clone returns a deep copy of the column's cell slice. Cell values themselves
// are immutable scalar types and are shared.
func (c Column) clone() Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Values: values}
}

// Table is an ordered collection of uniquely named, equal-length columns.
// The zero value is an empty table with no columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// New creates a table from the given columns. It fails if column names
// collide or column lengths differ.
func New(cols ...Column) (*Table, error) {
	t := &Table{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	rows := -1
	for _, col := range cols {
		if _, exists := t.index[col.Name]; exists {
			return nil, errors.NewValidationError("column", col.Name, "duplicate column name")
		}
		if rows >= 0 && len(col.Values) != rows {
			return nil, errors.NewValidationError("column", col.Name, "column length mismatch")
		}
		rows = len(col.Values)
		t.index[col.Name] = len(t.cols)
		t.cols = append(t.cols, col)
	}
	return t, nil
}

// MustNew is New but panics on error. Intended for tests and literals whose
// shape is known to be valid.
func MustNew(cols ...Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column and whether it exists.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the subset of names not present in the table,
// preserving order.
func (t *Table) MissingColumns(names []string) []string {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Cell returns the value at the given column name and row index.
func (t *Table) Cell(name string, row int) (Value, bool) {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.NumRows() {
		return nil, false
	}
	return t.cols[i].Values[row], true
}

// Row returns the cells of a row in column order.
func (t *Table) Row(row int) []Value {
	cells := make([]Value, len(t.cols))
	for i, c := range t.cols {
		cells[i] = c.Values[row]
	}
	return cells
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.clone()
	}
	out, _ := New(cols...)
	return out
}

// WithColumn returns a copy of the table with the given column appended, or
// replaced in place when a column of the same name already exists. The column
// must match the table's row count unless the table is empty.
func (t *Table) WithColumn(col Column) (*Table, error) {
	if t.NumCols() > 0 && len(col.Values) != t.NumRows() {
		return nil, errors.NewValidationError("column", col.Name, "column length mismatch")
	}
	out := t.Clone()
	if i, ok := out.index[col.Name]; ok {
		out.cols[i] = col.clone()
		return out, nil
	}
	out.index[col.Name] = len(out.cols)
	out.cols = append(out.cols, col.clone())
	return out, nil
}

// Rename returns a copy of the table with columns renamed per the mapping.
// Names absent from the mapping are kept. When two columns end up with the
// same name the last one wins, mirroring the loader's documented rename
// policy; callers that care should check for collisions beforehand.
func (t *Table) Rename(mapping map[string]string) *Table {
	cols := make([]Column, 0, len(t.cols))
	index := make(map[string]int, len(t.cols))
	for _, c := range t.cols {
		name := c.Name
		if renamed, ok := mapping[name]; ok {
			name = renamed
		}
		col := c.clone()
		col.Name = name
		if i, exists := index[name]; exists {
			cols[i] = col
			continue
		}
		index[name] = len(cols)
		cols = append(cols, col)
	}
	out, _ := New(cols...)
	return out
}

// Select returns a new table containing the given rows, in the given order.
// Row indices must be in range.
func (t *Table) Select(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		values := make([]Value, len(rows))
		for j, r := range rows {
			values[j] = c.Values[r]
		}
		cols[i] = Column{Name: c.Name, Values: values}
	}
	out, _ := New(cols...)
	return out
}

// Head returns a new table with at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Select(rows)
}

// IsNull reports whether a cell value is the null marker.
func IsNull(v Value) bool {
	return v == nil
}

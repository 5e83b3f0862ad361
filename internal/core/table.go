package core

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind classifies a cell value.
type Kind uint8

const (
	KindNull  Kind = iota // empty cell, the absence marker
	KindText              // free text
	KindOther             // numbers, booleans, dates, error cells
)

// Value is a single table cell.
type Value struct {
	Kind Kind
	Raw  string
}

// Null returns the absence marker.
func Null() Value { return Value{} }

// Text returns a text cell.
func Text(s string) Value { return Value{Kind: KindText, Raw: s} }

// Other returns a non-text cell with s as its display form.
func Other(s string) Value { return Value{Kind: KindOther, Raw: s} }

// IsNull reports whether v is the absence marker.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsText returns the cell content if and only if the cell holds text.
func (v Value) AsText() (string, bool) {
	if v.Kind != KindText {
		return "", false
	}
	return v.Raw, true
}

// String returns the display form; empty for Null.
func (v Value) String() string { return v.Raw }

// Row maps column names to cell values.
type Row map[string]Value

// Get returns the value stored under col, or Null when the column is absent.
func (r Row) Get(col string) Value {
	if r == nil {
		return Null()
	}
	return r[col]
}

// Clone returns a shallow copy of the row. Values are immutable so a shallow
// copy is a full copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of named columns and the rows that fill them.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Append adds a row built from values in column order. Missing trailing
// values are left absent.
func (t *Table) Append(values ...Value) {
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(values) {
			row[col] = values[i]
		}
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the header contains name exactly.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// ResolveColumn returns the first header that matches one of the accepted
// names. Headers and names are compared after NormalizeHeader.
func (t *Table) ResolveColumn(names ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, name := range names {
		want := NormalizeHeader(name)
		for _, col := range t.Columns {
			if NormalizeHeader(col) == want {
				return col, true
			}
		}
	}
	return "", false
}

// Clone returns a copy whose rows can be modified without touching t.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// ensureColumn appends name to the header unless it is already present.
func (t *Table) ensureColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// NormalizeHeader trims surrounding whitespace and converts to NFC so that
// "Descrição" typed on different systems compares equal.
func NormalizeHeader(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Accepted header names. The Portuguese names are the ones used by the
// downloadable sample workbooks.
var (
	DescriptionColumns = []string{"Description", "Descrição"}
	AttributeColumns   = []string{"Attribute", "Atributo"}
	ValueColumns       = []string{"Value", "Valor"}
	PatternColumns     = []string{"Patterns", "Padrões"}
)

// DescriptionColumn returns the header of the free-text description column.
func DescriptionColumn(t *Table) (string, bool) {
	return t.ResolveColumn(DescriptionColumns...)
}

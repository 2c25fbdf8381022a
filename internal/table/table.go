// Package table is a small column-ordered, row-major table used to hold
// flattened leaderboard data. Cells are nil (null), string, bool, int64,
// float64 or whatever a decoded JSON value was.
package table

import (
	"encoding/json"
	"sort"
)

// Row maps column names to cell values.
type Row map[string]any

// Table is an ordered set of columns over a slice of rows. Columns are added
// in order of first appearance and a row without a value for a column reads
// as nil.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int)}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th row. The returned map is the table's own storage.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Append adds a row. Columns the table has not seen yet are added in sorted
// order so that appending maps stays deterministic.
func (t *Table) Append(r Row) {
	var fresh []string
	for k := range r {
		if !t.HasColumn(k) {
			fresh = append(fresh, k)
		}
	}
	sort.Strings(fresh)
	for _, k := range fresh {
		t.addColumn(k)
	}

	cpy := make(Row, len(r))
	for k, v := range r {
		cpy[k] = v
	}
	t.rows = append(t.rows, cpy)
}

// Value returns the cell at row i, column col (nil when absent).
func (t *Table) Value(i int, col string) any {
	return t.rows[i][col]
}

// Set writes a cell, creating the column when needed.
func (t *Table) Set(i int, col string, v any) {
	t.addColumn(col)
	t.rows[i][col] = v
}

// Column returns a copy of the values in col.
func (t *Table) Column(col string) []any {
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[col]
	}
	return out
}

// Fill sets col to v on every row.
func (t *Table) Fill(col string, v any) {
	t.addColumn(col)
	for _, r := range t.rows {
		r[col] = v
	}
}

// Apply writes fn(row[src]) into dst for every row. dst may equal src.
func (t *Table) Apply(src, dst string, fn func(any) any) {
	t.addColumn(dst)
	for _, r := range t.rows {
		r[dst] = fn(r[src])
	}
}

// Records returns the rows as plain maps containing every column.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, r := range t.rows {
		rec := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			rec[c] = r[c]
		}
		out[i] = rec
	}
	return out
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [{...}]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}{
		Columns: t.Columns(),
		Rows:    t.Records(),
	})
}

// Concat stacks tables vertically. The result carries the union of the
// columns in order of first appearance; missing cells are nil.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.columns {
			out.addColumn(c)
		}
		for _, r := range t.rows {
			cpy := make(Row, len(r))
			for k, v := range r {
				cpy[k] = v
			}
			out.rows = append(out.rows, cpy)
		}
	}
	return out
}

// Flatten turns a nested JSON object into a single row, joining nested keys
// with ".". Arrays are kept as values.
func Flatten(rec map[string]any) Row {
	out := make(Row)
	flattenInto(out, "", rec)
	return out
}

func flattenInto(out Row, prefix string, rec map[string]any) {
	for k, v := range rec {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flattenInto(out, key, nested)
			continue
		}
		out[key] = v
	}
}

package ocs

import (
	"sort"
)

// Table is a scenario table: a header row followed by data rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a Table from raw cells where the first row is the header.
func NewTable(cells [][]string) Table {
	if len(cells) == 0 {
		return Table{}
	}
	return Table{Columns: cells[0], Rows: cells[1:]}
}

func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Hashes returns one column->value map per data row.
func (t Table) Hashes() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(row) {
				m[c] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

// RowsHash reads a two column table as key/value pairs.
func (t Table) RowsHash() map[string]string {
	out := make(map[string]string, len(t.Rows)+1)
	for _, row := range append([][]string{t.Columns}, t.Rows...) {
		if len(row) >= 2 {
			out[row[0]] = row[1]
		}
	}
	return out
}

// VerifyColumns checks that every required column is present and that no
// column outside required and optional is used.
func (t Table) VerifyColumns(required, optional []string) error {
	known := make(map[string]bool, len(required)+len(optional))
	for _, c := range required {
		known[c] = true
	}
	for _, c := range optional {
		known[c] = true
	}

	verr := &SchemaValidationError{}
	for _, c := range required {
		if !t.HasColumn(c) {
			verr.Missing = append(verr.Missing, c)
		}
	}
	for _, c := range t.Columns {
		if !known[c] {
			verr.Unexpected = append(verr.Unexpected, c)
		}
	}
	if len(verr.Missing) == 0 && len(verr.Unexpected) == 0 {
		return nil
	}
	sort.Strings(verr.Unexpected)
	return verr
}

package model

import "database/sql"

// Row is one result row. Values are int64, float64, string, []byte or nil,
// exactly as the engine reports them.
type Row []any

// Result is a fully materialized query result.
type Result struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Column returns the values of the column at index i across all rows.
func (r *Result) Column(i int) []any {
	if r == nil || i < 0 || i >= len(r.Columns) {
		return nil
	}
	values := make([]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		if i < len(row) {
			values = append(values, row[i])
		}
	}
	return values
}

// ColumnDescriptor is one row of SQLite's table_info pragma.
type ColumnDescriptor struct {
	// Position is the zero-based column index (cid).
	Position int
	Name     string
	// Type is the declared type, empty when none was declared.
	Type    string
	NotNull bool
	Default sql.NullString
	// PrimaryKey is the 1-based position within the primary key, 0 if not part of it.
	PrimaryKey int
}

// BoroDifference is one row of the students versus test takers analysis.
type BoroDifference struct {
	Boro       string
	Difference float64
}

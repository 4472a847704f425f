package model

import "fmt"

// TableFormat selects the file format of a table write.
type TableFormat string

const (
	FormatJSONLines TableFormat = "jsonl"
	FormatParquet   TableFormat = "parquet"
)

// Extension returns the object file extension for the format.
func (f TableFormat) Extension() string {
	switch f {
	case FormatParquet:
		return "parquet"
	default:
		return "json"
	}
}

// Validate checks that the format is known.
func (f TableFormat) Validate() error {
	switch f {
	case FormatJSONLines, FormatParquet:
		return nil
	default:
		return fmt.Errorf("unknown table format %q", string(f))
	}
}

// ColumnType is the logical type of a table column.
type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnInt    ColumnType = "int"
	ColumnFloat  ColumnType = "float"
	ColumnBool   ColumnType = "bool"
)

// Column describes one table column.
type Column struct {
	Name string
	Type ColumnType // empty means string
}

// Table is an in-memory tabular payload: ordered columns and rows of values.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Validate checks that every row has one value per column.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table has no columns")
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("table has an unnamed column")
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Records returns the rows in records orientation: one column->value map per row.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			rec[c.Name] = row[i]
		}
		out = append(out, rec)
	}
	return out
}

// Chunks splits the rows into tables of at most n rows sharing the same columns.
// n <= 0 returns the table unchanged.
func (t *Table) Chunks(n int) []*Table {
	if n <= 0 || len(t.Rows) <= n {
		return []*Table{t}
	}
	var out []*Table
	for start := 0; start < len(t.Rows); start += n {
		end := min(start+n, len(t.Rows))
		out = append(out, &Table{Columns: t.Columns, Rows: t.Rows[start:end]})
	}
	return out
}

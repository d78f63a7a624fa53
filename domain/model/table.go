package model

// Table is parsed source content ready to be written into the database.
type Table struct {
	name    string
	header  Header
	records []Record
	columns []ColumnInfo
}

// NewTable creates a table and infers its column types from every record.
func NewTable(name string, header Header, records []Record) *Table {
	return &Table{
		name:    name,
		header:  header,
		records: records,
		columns: InferColumnsInfo(header, records),
	}
}

// Name returns the target table name.
func (t *Table) Name() string {
	return t.name
}

// Header returns the column names in source order.
func (t *Table) Header() Header {
	return t.header
}

// Records returns the data rows.
func (t *Table) Records() []Record {
	return t.records
}

// Columns returns the inferred column information.
func (t *Table) Columns() []ColumnInfo {
	return t.columns
}

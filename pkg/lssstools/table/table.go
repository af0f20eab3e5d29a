package table

// Table is an immutable column-oriented table produced by a Builder.
type Table struct {
	schema Schema
	cols   []*Column
	index  map[string]int
	rows   int
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Schema returns the declared schema.
func (t *Table) Schema() Schema { return append(Schema(nil), t.schema...) }

// Columns returns the column names in schema order.
func (t *Table) Columns() []string { return t.schema.Names() }

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Row returns the values of row i in schema order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Value(i)
	}
	return row
}

// FormatRow returns the text rendering of row i in schema order.
func (t *Table) FormatRow(i int) []string {
	row := make([]string, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Format(i)
	}
	return row
}

package output

import (
	"fmt"

	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet WriteXLSX uses when none is given.
const DefaultSheet = "Sheet1"

// WriteXLSX writes the table to a single worksheet of a new workbook at
// path: a header row, then one row per table row.
func WriteXLSX(path, sheet string, t *table.Table) error {
	if t.Len()+1 > excelize.TotalRows {
		return fmt.Errorf("table has %d rows, a worksheet holds at most %d", t.Len(), excelize.TotalRows-1)
	}
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, len(t.Columns()))
	for _, name := range t.Columns() {
		header = append(header, name)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	var lists []int
	for j, field := range t.Schema() {
		if field.Kind == table.StringList {
			lists = append(lists, j)
		}
	}

	for i := range t.Len() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, xlsxRow(t, i, lists)); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// xlsxRow returns row i with list columns joined, since cells hold scalars only.
func xlsxRow(t *table.Table, i int, lists []int) []interface{} {
	row := t.Row(i)
	names := t.Columns()
	for _, j := range lists {
		c, _ := t.Column(names[j])
		row[j] = c.Format(i)
	}
	return row
}

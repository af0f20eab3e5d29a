package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
)

// WriteCSV writes a header row followed by every table row.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("csv write header: %w", err)
	}
	for i := range t.Len() {
		if err := cw.Write(t.FormatRow(i)); err != nil {
			return fmt.Errorf("csv write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

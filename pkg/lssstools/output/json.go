package output

import (
	"encoding/json"

	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
)

// TableJSON is the split layout of a table: column names once, then one
// array of values per row.
type TableJSON struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// ToJSON serializes a table in split layout.
func ToJSON(t *table.Table, pretty bool) ([]byte, error) {
	out := TableJSON{
		Columns: t.Columns(),
		Data:    make([][]any, t.Len()),
	}
	for i := range out.Data {
		out.Data[i] = t.Row(i)
	}
	if pretty {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

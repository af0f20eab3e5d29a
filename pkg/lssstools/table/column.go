package table

import (
	"strconv"
	"strings"
	"time"
)

// Column is one typed column of a table.
// Exactly one of the backing slices is used, selected by Kind.
type Column struct {
	Field

	ints   []int64
	floats []float64
	bools  []bool
	strs   []string
	lists  [][]string
	times  []time.Time
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case Int:
		return len(c.ints)
	case Float:
		return len(c.floats)
	case Bool:
		return len(c.bools)
	case StringList:
		return len(c.lists)
	case Time:
		if c.times != nil {
			return len(c.times)
		}
	}
	return len(c.strs)
}

// Value returns the i-th value as int64, float64, bool, string, []string or time.Time.
func (c *Column) Value(i int) any {
	switch c.Kind {
	case Int:
		return c.ints[i]
	case Float:
		return c.floats[i]
	case Bool:
		return c.bools[i]
	case StringList:
		return c.lists[i]
	case Time:
		return c.times[i]
	}
	return c.strs[i]
}

// Format renders the i-th value as text. Lists are joined with ";",
// times use RFC 3339 with nanoseconds in UTC.
func (c *Column) Format(i int) string {
	switch c.Kind {
	case Int:
		return strconv.FormatInt(c.ints[i], 10)
	case Float:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(c.bools[i])
	case StringList:
		return strings.Join(c.lists[i], ";")
	case Time:
		return c.times[i].UTC().Format(time.RFC3339Nano)
	}
	return c.strs[i]
}

// Ints returns the backing values of an Int column, or nil.
func (c *Column) Ints() []int64 { return c.ints }

// Floats returns the backing values of a Float column, or nil.
func (c *Column) Floats() []float64 { return c.floats }

// Bools returns the backing values of a Bool column, or nil.
func (c *Column) Bools() []bool { return c.bools }

// Strings returns the backing values of a String column, or nil.
func (c *Column) Strings() []string {
	if c.Kind != String {
		return nil
	}
	return c.strs
}

// Lists returns the backing values of a StringList column, or nil.
func (c *Column) Lists() [][]string { return c.lists }

// Times returns the backing values of a Time column, or nil before Build.
func (c *Column) Times() []time.Time { return c.times }

// IntColumn appends to an Int column.
type IntColumn struct{ c *Column }

// Repeat appends v n times.
func (w IntColumn) Repeat(v int64, n int) {
	for range n {
		w.c.ints = append(w.c.ints, v)
	}
}

// Extend appends vs in order.
func (w IntColumn) Extend(vs ...int64) { w.c.ints = append(w.c.ints, vs...) }

// FloatColumn appends to a Float column.
type FloatColumn struct{ c *Column }

// Repeat appends v n times.
func (w FloatColumn) Repeat(v float64, n int) {
	for range n {
		w.c.floats = append(w.c.floats, v)
	}
}

// Extend appends vs in order.
func (w FloatColumn) Extend(vs ...float64) { w.c.floats = append(w.c.floats, vs...) }

// BoolColumn appends to a Bool column.
type BoolColumn struct{ c *Column }

// Repeat appends v n times.
func (w BoolColumn) Repeat(v bool, n int) {
	for range n {
		w.c.bools = append(w.c.bools, v)
	}
}

// StringColumn appends to a String column.
type StringColumn struct{ c *Column }

// Repeat appends v n times.
func (w StringColumn) Repeat(v string, n int) {
	for range n {
		w.c.strs = append(w.c.strs, v)
	}
}

// StringListColumn appends to a StringList column.
type StringListColumn struct{ c *Column }

// Repeat appends v n times. The rows share one copy of v.
func (w StringListColumn) Repeat(v []string, n int) {
	shared := append([]string(nil), v...)
	for range n {
		w.c.lists = append(w.c.lists, shared)
	}
}

// TimeColumn appends raw timestamps to a Time column.
type TimeColumn struct{ c *Column }

// Repeat appends the raw timestamp n times.
func (w TimeColumn) Repeat(raw string, n int) {
	for range n {
		w.c.strs = append(w.c.strs, raw)
	}
}

package table

import (
	"fmt"
	"time"
)

// DefaultTimeLayouts are tried in order when parsing Time columns.
// Timestamps without a zone are read as UTC.
var DefaultTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// TimeParseError reports a raw timestamp that matched no layout.
type TimeParseError struct {
	Column string
	Row    int
	Value  string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot parse timestamp %q", e.Column, e.Row, e.Value)
}

// Builder accumulates rows for a declared schema.
type Builder struct {
	schema  Schema
	cols    []*Column
	index   map[string]int
	layouts []string
}

// NewBuilder creates a builder for schema. Extra time layouts are tried
// after DefaultTimeLayouts.
func NewBuilder(schema Schema, timeLayouts ...string) (*Builder, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		schema:  append(Schema(nil), schema...),
		cols:    make([]*Column, len(schema)),
		index:   make(map[string]int, len(schema)),
		layouts: append(append([]string(nil), DefaultTimeLayouts...), timeLayouts...),
	}
	for i, f := range schema {
		b.cols[i] = &Column{Field: f}
		b.index[f.Name] = i
	}
	return b, nil
}

// MustNewBuilder is like NewBuilder but panics on an invalid schema.
// It is meant for schemas declared as package variables.
func MustNewBuilder(schema Schema, timeLayouts ...string) *Builder {
	b, err := NewBuilder(schema, timeLayouts...)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) column(name string, kind Kind) *Column {
	i, ok := b.index[name]
	if !ok {
		panic(fmt.Sprintf("table: no column %q", name))
	}
	c := b.cols[i]
	if c.Kind != kind {
		panic(fmt.Sprintf("table: column %q is %v, not %v", name, c.Kind, kind))
	}
	return c
}

// Int returns the appender of an Int column. It panics if the schema
// does not declare name with that kind.
func (b *Builder) Int(name string) IntColumn { return IntColumn{b.column(name, Int)} }

// Float returns the appender of a Float column.
func (b *Builder) Float(name string) FloatColumn { return FloatColumn{b.column(name, Float)} }

// Bool returns the appender of a Bool column.
func (b *Builder) Bool(name string) BoolColumn { return BoolColumn{b.column(name, Bool)} }

// String returns the appender of a String column.
func (b *Builder) String(name string) StringColumn { return StringColumn{b.column(name, String)} }

// StringList returns the appender of a StringList column.
func (b *Builder) StringList(name string) StringListColumn {
	return StringListColumn{b.column(name, StringList)}
}

// Time returns the appender of a Time column.
func (b *Builder) Time(name string) TimeColumn { return TimeColumn{b.column(name, Time)} }

// Build checks column alignment, parses Time columns and returns the table.
// The builder must not be used afterwards.
func (b *Builder) Build() (*Table, error) {
	n := -1
	for _, c := range b.cols {
		l := c.Len()
		if n < 0 {
			n = l
			continue
		}
		if l != n {
			return nil, fmt.Errorf("column %q has %d values, column %q has %d",
				c.Name, l, b.cols[0].Name, n)
		}
	}

	for _, c := range b.cols {
		if c.Kind != Time {
			continue
		}
		if err := b.parseTimes(c); err != nil {
			return nil, err
		}
	}

	t := &Table{schema: b.schema, cols: b.cols, index: b.index, rows: n}
	b.cols = nil
	return t, nil
}

// parseTimes converts the raw strings of c once per distinct value.
func (b *Builder) parseTimes(c *Column) error {
	parsed := make(map[string]time.Time)
	c.times = make([]time.Time, len(c.strs))
	for i, raw := range c.strs {
		ts, ok := parsed[raw]
		if !ok {
			var err error
			ts, err = ParseTime(raw, b.layouts...)
			if err != nil {
				return &TimeParseError{Column: c.Name, Row: i, Value: raw}
			}
			parsed[raw] = ts
		}
		c.times[i] = ts
	}
	c.strs = nil
	return nil
}

// ParseTime parses raw with the first matching layout. With no layouts
// it uses DefaultTimeLayouts.
func ParseTime(raw string, layouts ...string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}
	var firstErr error
	for _, layout := range layouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

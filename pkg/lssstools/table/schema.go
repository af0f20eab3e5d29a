// Package table provides a column-oriented table with a declared schema.
//
// A Builder holds one typed growable sequence per declared column.
// Flatteners obtain typed column handles once, append broadcast values
// with Repeat and per-sample values with Extend, and call Build, which
// checks that every column has the same length and parses raw timestamp
// strings into time.Time.
package table

import "fmt"

// Kind is the element type of a column.
type Kind int

const (
	// Int columns hold int64 values.
	Int Kind = iota
	// Float columns hold float64 values.
	Float
	// Bool columns hold bool values.
	Bool
	// String columns hold string values.
	String
	// StringList columns hold []string values.
	StringList
	// Time columns are filled with raw timestamp strings and hold time.Time after Build.
	Time
)

var kindNames = [...]string{"int", "float", "bool", "string", "string_list", "time"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field declares a column.
type Field struct {
	Name string
	Kind Kind
}

// Schema is an ordered list of fields.
type Schema []Field

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Validate checks that the schema is non-empty and has no duplicate names.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if f.Name == "" {
			return fmt.Errorf("schema has a field with an empty name")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate column %q", f.Name)
		}
		if f.Kind < Int || f.Kind > Time {
			return fmt.Errorf("column %q has unknown kind %v", f.Name, f.Kind)
		}
		seen[f.Name] = true
	}
	return nil
}

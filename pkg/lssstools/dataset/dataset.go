// Package dataset holds multi-dimensional labelled datasets: named
// dimensions, coordinate variables along them, data variables and
// global attributes.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned when a variable does not fit its dimensions.
var ErrShape = errors.New("variable shape does not match dimensions")

// Dim is a named dimension.
type Dim struct {
	Name string
	Len  int
}

// Variable is a named array laid out along dimensions.
// Data is []float64 or []int64 for one dimension and *mat.Dense for two.
type Variable struct {
	Name  string
	Dims  []string
	Data  any
	Attrs Attributes
}

// Shape returns the extent of Data along each axis.
func (v *Variable) Shape() ([]int, error) {
	switch data := v.Data.(type) {
	case []float64:
		return []int{len(data)}, nil
	case []int64:
		return []int{len(data)}, nil
	case *mat.Dense:
		r, c := data.Dims()
		return []int{r, c}, nil
	}
	return nil, fmt.Errorf("variable %q: unsupported data type %T", v.Name, v.Data)
}

// Dataset is a set of coordinates and variables sharing dimensions.
type Dataset struct {
	dims   []Dim
	coords []*Variable
	vars   []*Variable
	names  map[string]bool

	// Attrs holds the global attributes.
	Attrs Attributes
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{names: make(map[string]bool)}
}

// AddDim declares a dimension.
func (d *Dataset) AddDim(name string, n int) error {
	if n < 0 {
		return fmt.Errorf("dimension %q: negative length %d", name, n)
	}
	if _, ok := d.Dim(name); ok {
		return fmt.Errorf("dimension %q already declared", name)
	}
	d.dims = append(d.dims, Dim{Name: name, Len: n})
	return nil
}

// Dim returns the named dimension.
func (d *Dataset) Dim(name string) (Dim, bool) {
	for _, dim := range d.dims {
		if dim.Name == name {
			return dim, true
		}
	}
	return Dim{}, false
}

// Dims returns the dimensions in declaration order.
func (d *Dataset) Dims() []Dim { return append([]Dim(nil), d.dims...) }

// AddCoord adds a one-dimensional coordinate variable. Its single
// dimension must carry the variable's own name.
func (d *Dataset) AddCoord(v *Variable) error {
	if len(v.Dims) != 1 || v.Dims[0] != v.Name {
		return fmt.Errorf("coordinate %q must be laid out along dimension %q", v.Name, v.Name)
	}
	if err := d.add(v); err != nil {
		return err
	}
	d.coords = append(d.coords, v)
	return nil
}

// AddVar adds a data variable.
func (d *Dataset) AddVar(v *Variable) error {
	if err := d.add(v); err != nil {
		return err
	}
	d.vars = append(d.vars, v)
	return nil
}

func (d *Dataset) add(v *Variable) error {
	if d.names[v.Name] {
		return fmt.Errorf("variable %q already defined", v.Name)
	}
	if err := d.checkShape(v); err != nil {
		return err
	}
	d.names[v.Name] = true
	return nil
}

func (d *Dataset) checkShape(v *Variable) error {
	shape, err := v.Shape()
	if err != nil {
		return err
	}
	if len(shape) != len(v.Dims) {
		return fmt.Errorf("variable %q: %d axes for %d dimensions: %w", v.Name, len(shape), len(v.Dims), ErrShape)
	}
	for i, name := range v.Dims {
		dim, ok := d.Dim(name)
		if !ok {
			return fmt.Errorf("variable %q: unknown dimension %q", v.Name, name)
		}
		if dim.Len != shape[i] {
			return fmt.Errorf("variable %q: axis %d has %d values, dimension %q has %d: %w",
				v.Name, i, shape[i], name, dim.Len, ErrShape)
		}
	}
	return nil
}

// Coords returns the coordinate variables in insertion order.
func (d *Dataset) Coords() []*Variable { return append([]*Variable(nil), d.coords...) }

// Vars returns the data variables in insertion order.
func (d *Dataset) Vars() []*Variable { return append([]*Variable(nil), d.vars...) }

// Var returns the coordinate or data variable called name.
func (d *Dataset) Var(name string) (*Variable, bool) {
	for _, v := range d.coords {
		if v.Name == name {
			return v, true
		}
	}
	for _, v := range d.vars {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Validate rechecks every variable against the declared dimensions.
func (d *Dataset) Validate() error {
	for _, v := range append(d.Coords(), d.vars...) {
		if err := d.checkShape(v); err != nil {
			return err
		}
	}
	return nil
}

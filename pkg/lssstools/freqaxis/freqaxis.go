// Package freqaxis generates the frequency axes of broadband channels.
package freqaxis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Axis describes an inclusive, evenly spaced frequency axis.
type Axis struct {
	Min   float64
	Max   float64
	Count int
}

// Values generates the axis.
func (a Axis) Values() ([]float64, error) {
	return Linspace(a.Min, a.Max, a.Count)
}

// Equal reports whether two axes generate the same values.
func (a Axis) Equal(b Axis) bool {
	return a.Min == b.Min && a.Max == b.Max && a.Count == b.Count
}

func (a Axis) String() string {
	return fmt.Sprintf("[%g, %g] x %d", a.Min, a.Max, a.Count)
}

// Linspace returns n evenly spaced values over [min, max].
// The first value is min and the last is max; n == 1 yields [min].
func Linspace(min, max float64, n int) ([]float64, error) {
	switch {
	case n < 0:
		return nil, fmt.Errorf("frequency count must be non-negative, got %d", n)
	case n == 0:
		return []float64{}, nil
	case n == 1:
		return []float64{min}, nil
	}
	axis := floats.Span(make([]float64, n), min, max)
	// pin the upper bound; min + step*(n-1) can miss it by an ulp
	axis[n-1] = max
	return axis, nil
}

package freqaxis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		min, max float64
		n        int
		expected []float64
	}{
		{100, 200, 3, []float64{100, 150, 200}},
		{0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{90e3, 160e3, 2, []float64{90e3, 160e3}},
		{42, 99, 1, []float64{42}},
		{1, 2, 0, []float64{}},
		{200, 100, 3, []float64{200, 150, 100}},
	}

	for _, tt := range tests {
		got, err := Linspace(tt.min, tt.max, tt.n)
		require.NoError(t, err)
		assert.InDeltaSlice(t, tt.expected, got, 1e-9, "Linspace(%g, %g, %d)", tt.min, tt.max, tt.n)
	}
}

func TestLinspaceInclusiveBounds(t *testing.T) {
	for _, n := range []int{2, 7, 100, 1001} {
		got, err := Linspace(34.5e3, 45.25e3, n)
		require.NoError(t, err)
		require.Len(t, got, n)
		assert.Equal(t, 34.5e3, got[0])
		assert.Equal(t, 45.25e3, got[n-1])

		again, err := Linspace(34.5e3, 45.25e3, n)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestLinspaceNegativeCount(t *testing.T) {
	_, err := Linspace(0, 1, -1)
	assert.Error(t, err)
}

func TestAxis(t *testing.T) {
	a := Axis{Min: 100, Max: 200, Count: 3}
	assert.True(t, a.Equal(Axis{Min: 100, Max: 200, Count: 3}))
	assert.False(t, a.Equal(Axis{Min: 100, Max: 200, Count: 4}))
	assert.Equal(t, "[100, 200] x 3", a.String())

	v, err := a.Values()
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 150, 200}, v)
}

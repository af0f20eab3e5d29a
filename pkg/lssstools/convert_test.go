package lssstools

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/lssstools/lssstools-go/pkg/lssstools/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.nc")
	require.NoError(t, mustDecode(t, tsExample).ToArrayFile(path))

	nc, err := netcdf.Open(path)
	require.NoError(t, err)
	defer nc.Close()

	tsc, err := nc.GetVariable(VarCompensatedTS)
	require.NoError(t, err)
	assert.Equal(t, []string{DimTarget, DimFrequency}, tsc.Dimensions)
	assert.Equal(t, [][]float64{{-40, -41, -42}, {-50, -51, -52}, {-60, -61, -62}}, tsc.Values)

	num, err := nc.GetVariable(VarPingNumber)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 2}, num.Values)

	id, err := nc.GetVariable(VarIdentifier)
	require.NoError(t, err)
	for _, v := range id.Values.([]float64) {
		assert.True(t, math.IsNaN(v))
	}

	survey, ok := nc.Attributes().Get("survey")
	require.True(t, ok)
	assert.Equal(t, `{"name":"MESO1","year":2023}`, survey)
}

func TestToArrayFileRejectsSv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sv.nc")

	err := mustDecode(t, svExample).ToArrayFile(path)
	require.ErrorIs(t, err, ErrUnsupportedNcExport)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToArrayFileWritesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	err := mustDecode(t, tsMismatch).ToArrayFile(filepath.Join(dir, "ts.nc"))
	require.ErrorIs(t, err, ErrFrequencyAxisMismatch)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToArrayFileOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.nc")
	h := mustDecode(t, tsExample)
	require.NoError(t, h.ToArrayFile(path))
	assert.ErrorIs(t, h.ToArrayFile(path), output.ErrExists)
	assert.NoError(t, h.ToArrayFile(path, output.WithOverwrite(true)))
}

func TestSvGrids(t *testing.T) {
	grids, err := mustDecode(t, svTwoRegions).SvGrids()
	require.NoError(t, err)
	require.Len(t, grids, 2)

	g := grids[0]
	assert.Equal(t, int64(0), g.Region)
	assert.Equal(t, int64(1), g.ObjectNumber)
	require.Len(t, g.Times, 2)
	// 90..160 by 4 plus 34 and 45
	assert.InDeltaSlice(t, []float64{34, 45, 90, 90 + 70.0/3, 90 + 140.0/3, 160}, g.Freqs, 1e-9)
	assert.Equal(t, 8, g.Filled())

	_, err = mustDecode(t, tsExample).SvGrids()
	assert.ErrorIs(t, err, ErrUnsupportedGridExport)
}

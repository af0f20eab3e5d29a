// Package grid pivots flattened Sv tables into per-region
// time-by-frequency matrices.
package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/lssstools/lssstools-go/pkg/lssstools/dataset"
	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
	"gonum.org/v1/gonum/mat"
)

// ErrDuplicateSample indicates two rows for the same (time, frequency) cell of a region.
var ErrDuplicateSample = errors.New("duplicate sample")

// RegionGrid is the Sv of one (region, object number) group laid out on
// its distinct ping times and frequencies. Cells without a sample are NaN.
type RegionGrid struct {
	Region       int64
	ObjectNumber int64
	Labels       []string
	Scrutiny     bool
	// Times are the distinct ping times, ascending.
	Times []time.Time
	// Freqs are the distinct frequencies in Hz, ascending.
	Freqs []float64
	// Sv has one row per time and one column per frequency.
	Sv *mat.Dense
}

// Name returns a file-friendly identifier for the grid.
func (g *RegionGrid) Name() string {
	return fmt.Sprintf("region%d_object%d", g.Region, g.ObjectNumber)
}

// Filled returns the number of cells holding a sample.
func (g *RegionGrid) Filled() int {
	n := 0
	r, c := g.Sv.Dims()
	for i := range r {
		for j := range c {
			if !math.IsNaN(g.Sv.At(i, j)) {
				n++
			}
		}
	}
	return n
}

type groupKey struct {
	region, object int64
}

type svColumns struct {
	region, object, sv, freq *table.Column
	labels, scrutiny, time   *table.Column
}

func lookupColumns(t *table.Table) (*svColumns, error) {
	get := func(name string, kind table.Kind) (*table.Column, error) {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("table has no %q column", name)
		}
		if c.Kind != kind {
			return nil, fmt.Errorf("column %q is %v, want %v", name, c.Kind, kind)
		}
		return c, nil
	}
	var (
		cols svColumns
		err  error
	)
	for _, spec := range []struct {
		dst  **table.Column
		name string
		kind table.Kind
	}{
		{&cols.region, "region", table.Int},
		{&cols.object, "objectnumber", table.Int},
		{&cols.labels, "labels", table.StringList},
		{&cols.scrutiny, "scrutiny", table.Bool},
		{&cols.time, "time", table.Time},
		{&cols.freq, "freq", table.Float},
		{&cols.sv, "Sv", table.Float},
	} {
		if *spec.dst, err = get(spec.name, spec.kind); err != nil {
			return nil, err
		}
	}
	return &cols, nil
}

// FromSvTable groups the rows of a flattened Sv table by (region,
// objectnumber) and pivots each group. Grids are ordered by region, then
// object number.
func FromSvTable(t *table.Table) ([]*RegionGrid, error) {
	cols, err := lookupColumns(t)
	if err != nil {
		return nil, err
	}

	regions, objects := cols.region.Ints(), cols.object.Ints()
	groups := make(map[groupKey][]int)
	var keys []groupKey
	for i := range t.Len() {
		k := groupKey{regions[i], objects[i]}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].region != keys[j].region {
			return keys[i].region < keys[j].region
		}
		return keys[i].object < keys[j].object
	})

	grids := make([]*RegionGrid, 0, len(keys))
	for _, k := range keys {
		g, err := pivot(k, groups[k], cols)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

func pivot(k groupKey, rows []int, cols *svColumns) (*RegionGrid, error) {
	times, freqs, sv := cols.time.Times(), cols.freq.Floats(), cols.sv.Floats()

	timeIdx := make(map[int64]int)
	freqIdx := make(map[float64]int)
	var uniqTimes []time.Time
	var uniqFreqs []float64
	for _, r := range rows {
		if _, ok := timeIdx[times[r].UnixNano()]; !ok {
			timeIdx[times[r].UnixNano()] = 0
			uniqTimes = append(uniqTimes, times[r])
		}
		if _, ok := freqIdx[freqs[r]]; !ok {
			freqIdx[freqs[r]] = 0
			uniqFreqs = append(uniqFreqs, freqs[r])
		}
	}
	sort.Slice(uniqTimes, func(i, j int) bool { return uniqTimes[i].Before(uniqTimes[j]) })
	sort.Float64s(uniqFreqs)
	for i, ts := range uniqTimes {
		timeIdx[ts.UnixNano()] = i
	}
	for j, f := range uniqFreqs {
		freqIdx[f] = j
	}

	m := mat.NewDense(len(uniqTimes), len(uniqFreqs), nil)
	for i := range uniqTimes {
		for j := range uniqFreqs {
			m.Set(i, j, math.NaN())
		}
	}
	seen := make(map[[2]int]bool, len(rows))
	for _, r := range rows {
		cell := [2]int{timeIdx[times[r].UnixNano()], freqIdx[freqs[r]]}
		if seen[cell] {
			return nil, fmt.Errorf("region %d object %d at %s, %g Hz: %w",
				k.region, k.object, times[r].Format(time.RFC3339Nano), freqs[r], ErrDuplicateSample)
		}
		seen[cell] = true
		m.Set(cell[0], cell[1], sv[r])
	}

	first := rows[0]
	return &RegionGrid{
		Region:       k.region,
		ObjectNumber: k.object,
		Labels:       cols.labels.Lists()[first],
		Scrutiny:     cols.scrutiny.Bools()[first],
		Times:        uniqTimes,
		Freqs:        uniqFreqs,
		Sv:           m,
	}, nil
}

// Dataset lays the grid out as a dataset with a time and a freq axis.
// Times are stored as nanoseconds since the Unix epoch.
func (g *RegionGrid) Dataset() (*dataset.Dataset, error) {
	epoch := make([]int64, len(g.Times))
	for i, ts := range g.Times {
		epoch[i] = ts.UnixNano()
	}

	ds := dataset.New()
	if err := ds.AddDim("time", len(g.Times)); err != nil {
		return nil, err
	}
	if err := ds.AddDim("freq", len(g.Freqs)); err != nil {
		return nil, err
	}

	timeVar := &dataset.Variable{Name: "time", Dims: []string{"time"}, Data: epoch}
	timeVar.Attrs.Set("units", "nanoseconds since 1970-01-01T00:00:00Z")
	freqVar := &dataset.Variable{Name: "freq", Dims: []string{"freq"}, Data: append([]float64(nil), g.Freqs...)}
	freqVar.Attrs.Set("units", "Hz")
	svVar := &dataset.Variable{Name: "Sv", Dims: []string{"time", "freq"}, Data: mat.DenseCopyOf(g.Sv)}
	svVar.Attrs.Set("units", "dB re 1 m-1")

	if err := ds.AddCoord(timeVar); err != nil {
		return nil, err
	}
	if err := ds.AddCoord(freqVar); err != nil {
		return nil, err
	}
	if err := ds.AddVar(svVar); err != nil {
		return nil, err
	}

	labels, err := json.Marshal(g.Labels)
	if err != nil {
		return nil, err
	}
	ds.Attrs.Set("region", g.Region)
	ds.Attrs.Set("objectnumber", g.ObjectNumber)
	ds.Attrs.Set("labels", string(labels))
	ds.Attrs.Set("scrutiny", strconv.FormatBool(g.Scrutiny))
	return ds, nil
}

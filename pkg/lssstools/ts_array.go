package lssstools

import (
	"fmt"
	"math"

	"github.com/lssstools/lssstools-go/pkg/lssstools/dataset"
	"github.com/lssstools/lssstools-go/pkg/lssstools/freqaxis"
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Dimension and variable names of the TS dataset.
const (
	DimTarget    = "i"
	DimFrequency = "frequency"

	VarCompensatedTS    = "compensated_TS"
	VarAlongshipAngle   = "single_target_alongship_angle"
	VarAthwartshipAngle = "single_target_athwartship_angle"
	VarPingTime         = "ping_time"
	VarPingNumber       = "ping_number"
	VarRange            = "single_target_range"
	VarIdentifier       = "single_target_identifier"
)

// tsSizing is the outcome of the sizing pass.
type tsSizing struct {
	targets int
	axis    freqaxis.Axis
	hasAxis bool
}

// tsArrays holds the preallocated per-target arrays.
type tsArrays struct {
	tsc         *mat.Dense
	alongship   []float64
	athwartship []float64
	pingTime    []int64
	pingNumber  []int64
	rng         []float64
	identifier  []float64
}

func newTSArrays(n, m int) *tsArrays {
	identifier := make([]float64, n)
	for i := range identifier {
		identifier[i] = math.NaN()
	}
	return &tsArrays{
		tsc:         mat.NewDense(n, m, nil),
		alongship:   make([]float64, n),
		athwartship: make([]float64, n),
		pingTime:    make([]int64, n),
		pingNumber:  make([]int64, n),
		rng:         make([]float64, n),
		identifier:  identifier,
	}
}

// sizeTS counts targets and fixes the document-wide frequency axis from
// the first valid channel. Every later channel and every tsc vector is
// checked against that axis, so the fill pass cannot fail on shape.
func sizeTS(doc *models.Document) (tsSizing, error) {
	var s tsSizing
	n, err := walkTargets(doc, targetVisitor{
		channel: func(ref ChannelRef) error {
			axis, err := tsChannelAxis(ref)
			if err != nil {
				return err
			}
			if !s.hasAxis {
				s.axis, s.hasAxis = axis, true
				return nil
			}
			if !axis.Equal(s.axis) {
				return NewRecordError(ref.Path(), "", fmt.Errorf("%w: channel axis %v, document axis %v",
					ErrFrequencyAxisMismatch, axis, s.axis))
			}
			return nil
		},
		target: func(ref TargetRef) error {
			if missing := ref.Target.Missing(); len(missing) > 0 {
				return missingFields(ref.Path(), missing)
			}
			if len(ref.Target.TSC) != s.axis.Count {
				return NewRecordError(ref.Path(), "tsc", fmt.Errorf("%w: %d samples on a %d-point axis",
					ErrFrequencyAxisMismatch, len(ref.Target.TSC), s.axis.Count))
			}
			return nil
		},
	})
	s.targets = n
	return s, err
}

// fillTS writes every target into its row of the preallocated arrays.
func fillTS(doc *models.Document, a *tsArrays, layouts []string) (int, error) {
	var (
		lastRaw  string
		lastTime int64
		parsed   bool
	)
	return walkTargets(doc, targetVisitor{
		channel: func(ref ChannelRef) error {
			if parsed && ref.Ping.Time == lastRaw {
				return nil
			}
			ts, err := table.ParseTime(ref.Ping.Time, layouts...)
			if err != nil {
				return NewRecordError(fmt.Sprintf("pings[%d]", ref.PingIndex), "time",
					fmt.Errorf("%w: %w", ErrMalformedRecord, err))
			}
			lastRaw, lastTime, parsed = ref.Ping.Time, ts.UnixNano(), true
			return nil
		},
		target: func(ref TargetRef) error {
			i, t := ref.ID, ref.Target
			a.tsc.SetRow(i, t.TSC)
			a.alongship[i] = *t.AlongshipAngle
			a.athwartship[i] = *t.AthwartshipAngle
			a.pingTime[i] = lastTime
			a.pingNumber[i] = int64(ref.Ping.Number)
			a.rng[i] = *t.Range
			return nil
		},
	})
}

// Dataset builds the per-target dataset in two passes over the same
// traversal: size and validate, preallocate, then fill by absolute
// target index.
func (tsStrategy) Dataset(doc *models.Document, opts Options) (*dataset.Dataset, error) {
	log := opts.logger()

	sizing, err := sizeTS(doc)
	if err != nil {
		return nil, err
	}
	if sizing.targets == 0 {
		return nil, ErrEmptyDataset
	}
	if sizing.axis.Count == 0 {
		return nil, fmt.Errorf("%w: document axis has no frequencies", ErrFrequencyAxisMismatch)
	}
	freqs, err := sizing.axis.Values()
	if err != nil {
		return nil, err
	}

	arrays := newTSArrays(sizing.targets, sizing.axis.Count)
	layouts := append(append([]string(nil), table.DefaultTimeLayouts...), opts.TimeLayouts...)
	filled, err := fillTS(doc, arrays, layouts)
	if err != nil {
		return nil, err
	}
	if filled != sizing.targets {
		return nil, fmt.Errorf("fill pass visited %d targets, sizing pass counted %d", filled, sizing.targets)
	}

	ds, err := assembleTS(arrays, freqs)
	if err != nil {
		return nil, err
	}
	if err := setInfoAttributes(&ds.Attrs, doc.Info); err != nil {
		return nil, err
	}

	log.Info("Built TS dataset",
		zap.Int("targets", sizing.targets),
		zap.Int("frequencies", sizing.axis.Count),
		zap.Stringer("axis", sizing.axis))
	return ds, nil
}

func assembleTS(a *tsArrays, freqs []float64) (*dataset.Dataset, error) {
	n, m := a.tsc.Dims()
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i)
	}

	ds := dataset.New()
	if err := ds.AddDim(DimTarget, n); err != nil {
		return nil, err
	}
	if err := ds.AddDim(DimFrequency, m); err != nil {
		return nil, err
	}

	coords := []*dataset.Variable{
		{Name: DimTarget, Dims: []string{DimTarget}, Data: ids},
		withUnits(&dataset.Variable{Name: DimFrequency, Dims: []string{DimFrequency}, Data: freqs}, "Hz"),
	}
	for _, c := range coords {
		if err := ds.AddCoord(c); err != nil {
			return nil, err
		}
	}

	target := []string{DimTarget}
	vars := []*dataset.Variable{
		withUnits(&dataset.Variable{Name: VarCompensatedTS, Dims: []string{DimTarget, DimFrequency}, Data: a.tsc}, "dB re 1 m2"),
		withUnits(&dataset.Variable{Name: VarAlongshipAngle, Dims: target, Data: a.alongship}, "degree"),
		withUnits(&dataset.Variable{Name: VarAthwartshipAngle, Dims: target, Data: a.athwartship}, "degree"),
		withUnits(&dataset.Variable{Name: VarPingTime, Dims: target, Data: a.pingTime}, "nanoseconds since 1970-01-01T00:00:00Z"),
		{Name: VarPingNumber, Dims: target, Data: a.pingNumber},
		withUnits(&dataset.Variable{Name: VarRange, Dims: target, Data: a.rng}, "m"),
		{Name: VarIdentifier, Dims: target, Data: a.identifier},
	}
	for _, v := range vars {
		if err := ds.AddVar(v); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func withUnits(v *dataset.Variable, units string) *dataset.Variable {
	v.Attrs.Set("units", units)
	return v
}

package output

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/google/uuid"
	"github.com/lssstools/lssstools-go/pkg/lssstools/dataset"
	"gonum.org/v1/gonum/mat"
)

// ErrExists is returned when the output file exists and overwriting is off.
var ErrExists = errors.New("output file already exists")

// NetCDFOption configures WriteNetCDF.
type NetCDFOption func(*netcdfOptions)

type netcdfOptions struct {
	overwrite bool
}

// WithOverwrite allows WriteNetCDF to replace an existing file.
func WithOverwrite(overwrite bool) NetCDFOption {
	return func(o *netcdfOptions) {
		o.overwrite = overwrite
	}
}

// WriteNetCDF writes ds to a NetCDF file at path. The file is assembled
// under a temporary name next to path and renamed into place only after
// the writer has been closed successfully, so a failed write leaves no
// partial file behind.
func WriteNetCDF(ds *dataset.Dataset, path string, opts ...NetCDFOption) (err error) {
	o := &netcdfOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if err := ds.Validate(); err != nil {
		return err
	}
	if !o.overwrite {
		if _, statErr := os.Stat(path); statErr == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	cw, err := cdf.OpenWriter(tmp)
	if err != nil {
		return fmt.Errorf("open %s: %w", tmp, err)
	}
	closed := false
	defer func() {
		if !closed {
			cw.Close()
		}
		if err != nil {
			os.Remove(tmp)
		}
	}()

	for _, v := range append(ds.Coords(), ds.Vars()...) {
		if err := addVariable(cw, v); err != nil {
			return err
		}
	}

	global, err := attributeMap(&ds.Attrs)
	if err != nil {
		return fmt.Errorf("global attributes: %w", err)
	}
	if err := cw.AddGlobalAttrs(global); err != nil {
		return fmt.Errorf("global attributes: %w", err)
	}

	closed = true
	if err := cw.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func addVariable(cw *cdf.CDFWriter, v *dataset.Variable) error {
	values, err := variableValues(v)
	if err != nil {
		return err
	}
	attrs, err := attributeMap(&v.Attrs)
	if err != nil {
		return fmt.Errorf("variable %q attributes: %w", v.Name, err)
	}
	if err := cw.AddVar(v.Name, api.Variable{
		Values:     values,
		Dimensions: v.Dims,
		Attributes: attrs,
	}); err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}
	return nil
}

// variableValues converts the data of v to the slice types the CDF writer accepts.
func variableValues(v *dataset.Variable) (any, error) {
	switch data := v.Data.(type) {
	case []float64, []int64:
		return data, nil
	case *mat.Dense:
		r, _ := data.Dims()
		rows := make([][]float64, r)
		for i := range rows {
			rows[i] = mat.Row(nil, i, data)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("variable %q: unsupported data type %T", v.Name, v.Data)
}

// attributeMap converts attributes to the writer's ordered map. Integers
// are narrowed to int32 when they fit, since classic NetCDF attributes
// have no 64-bit integer type.
func attributeMap(a *dataset.Attributes) (api.AttributeMap, error) {
	keys := a.Keys()
	values := make(map[string]any, len(keys))
	for _, k := range keys {
		v, _ := a.Get(k)
		switch v := v.(type) {
		case string, float64, int32:
			values[k] = v
		case int64:
			values[k] = narrowInt(v)
		case int:
			values[k] = narrowInt(int64(v))
		default:
			values[k] = fmt.Sprint(v)
		}
	}
	return util.NewOrderedMap(keys, values)
}

// narrowInt returns v as int32, or as float64 when it does not fit.
func narrowInt(v int64) any {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return int32(v)
	}
	return float64(v)
}

package lssstools

import (
	"fmt"

	"github.com/lssstools/lssstools-go/pkg/lssstools/dataset"
	"github.com/lssstools/lssstools-go/pkg/lssstools/grid"
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/lssstools/lssstools-go/pkg/lssstools/output"
)

// ToTable flattens the document with the strategy of its export type.
func (h *Handle) ToTable() (*TableResult, error) {
	return h.strategy.Table(h.doc, h.opts)
}

// Dataset builds the multi-dimensional dataset of the document. It fails
// with ErrUnsupportedNcExport, before any allocation, for variants that
// have no array representation.
func (h *Handle) Dataset() (*dataset.Dataset, error) {
	exporter, ok := h.strategy.(ArrayExporter)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNcExport, h.Type())
	}
	return exporter.Dataset(h.doc, h.opts)
}

// ToArrayFile builds the dataset and writes it to a NetCDF file at path.
// Nothing is written unless the dataset is complete.
func (h *Handle) ToArrayFile(path string, opts ...output.NetCDFOption) error {
	ds, err := h.Dataset()
	if err != nil {
		return err
	}
	return output.WriteNetCDF(ds, path, opts...)
}

// SvGrids pivots an Sv document into one time-by-frequency grid per
// (region, object number).
func (h *Handle) SvGrids() ([]*grid.RegionGrid, error) {
	if h.Type() != models.ExportBroadbandSv {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGridExport, h.Type())
	}
	res, err := h.ToTable()
	if err != nil {
		return nil, err
	}
	return grid.FromSvTable(res.Table)
}

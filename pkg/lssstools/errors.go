package lssstools

import (
	"errors"
	"fmt"

	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
)

// ErrUnsupportedExportType indicates an info.exportType with no registered strategy.
var ErrUnsupportedExportType = errors.New("unsupported export type")

// ErrUnsupportedNcExport indicates an array file export requested for a
// variant that has no array representation.
var ErrUnsupportedNcExport = errors.New("export type does not support array file export")

// ErrUnsupportedGridExport indicates Sv grids requested for a non-Sv document.
var ErrUnsupportedGridExport = errors.New("export type does not support sv grids")

// ErrMalformedRecord indicates a required field is absent or unreadable.
var ErrMalformedRecord = errors.New("malformed record")

// ErrFrequencyAxisMismatch indicates sample vectors or channels that
// disagree with the frequency axis they are laid out on.
var ErrFrequencyAxisMismatch = errors.New("frequency axis mismatch")

// ErrEmptyDataset indicates an array export with no targets to write.
var ErrEmptyDataset = errors.New("no targets to export")

// ExportTypeError reports the unsupported type found in a document.
type ExportTypeError struct {
	Type models.ExportType
}

func (e *ExportTypeError) Error() string {
	return fmt.Sprintf("unsupported export type %q", string(e.Type))
}

func (e *ExportTypeError) Unwrap() error {
	return ErrUnsupportedExportType
}

// RecordError represents a failure tied to one record of the document.
type RecordError struct {
	Path  string // e.g. "pings[2].channels[0].targets[4]"
	Field string // empty when the whole record is at fault
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("record %s field %q: %v", e.Path, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError creates a new RecordError.
func NewRecordError(path, field string, err error) *RecordError {
	return &RecordError{
		Path:  path,
		Field: field,
		Err:   err,
	}
}

// missingFields builds the error for a record lacking required fields.
func missingFields(path string, fields []string) *RecordError {
	return NewRecordError(path, fields[0], fmt.Errorf("%w: missing %v", ErrMalformedRecord, fields))
}

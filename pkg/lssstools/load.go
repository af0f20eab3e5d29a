package lssstools

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"go.uber.org/zap"
)

// Handle is a loaded export document bound to the strategy for its type.
type Handle struct {
	path     string
	doc      *models.Document
	strategy Strategy
	opts     Options
}

// Load reads and decodes the export at path. The file is closed before
// Load returns.
func Load(path string, opts Options) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	h.path = path
	return h, nil
}

// Decode reads an export document from r. The export type is checked
// before any region or ping data is decoded.
func Decode(r io.Reader, opts Options) (*Handle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	rawInfo, ok := raw["info"]
	if !ok {
		return nil, missingFields("document", []string{"info"})
	}
	var info models.Info
	if err := json.Unmarshal(rawInfo, &info); err != nil {
		return nil, NewRecordError("info", "", fmt.Errorf("%w: %w", ErrMalformedRecord, err))
	}

	strategy, err := dispatch(info.ExportType())
	if err != nil {
		return nil, err
	}

	doc := &models.Document{Info: info}
	if err := strategy.Decode(raw, doc); err != nil {
		return nil, err
	}

	opts.logger().Debug("Decoded export",
		zap.String("export_type", string(doc.ExportType())),
		zap.Int("regions", len(doc.Regions)),
		zap.Int("pings", len(doc.Pings)))

	return &Handle{doc: doc, strategy: strategy, opts: opts}, nil
}

// decodePayload unmarshals the required top-level key into v.
func decodePayload(raw map[string]json.RawMessage, key string, v any) error {
	payload, ok := raw[key]
	if !ok {
		return missingFields("document", []string{key})
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return NewRecordError(key, "", fmt.Errorf("%w: %w", ErrMalformedRecord, err))
	}
	return nil
}

// Path returns the file the handle was loaded from, or "" for Decode.
func (h *Handle) Path() string { return h.path }

// Type returns the declared export type.
func (h *Handle) Type() models.ExportType { return h.doc.ExportType() }

// Info returns the document info block.
func (h *Handle) Info() models.Info { return h.doc.Info }

// Document returns the decoded document. Callers must not modify it.
func (h *Handle) Document() *models.Document { return h.doc }

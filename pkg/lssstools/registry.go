package lssstools

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/lssstools/lssstools-go/pkg/lssstools/dataset"
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
)

// Strategy flattens one export variant.
type Strategy interface {
	// Type returns the export type the strategy handles.
	Type() models.ExportType
	// Decode reads the variant payload from the top-level JSON object into doc.
	Decode(raw map[string]json.RawMessage, doc *models.Document) error
	// Table flattens doc into one row per finest-grained sample.
	Table(doc *models.Document, opts Options) (*TableResult, error)
}

// ArrayExporter is implemented by strategies that can build a dataset
// for array file export.
type ArrayExporter interface {
	Dataset(doc *models.Document, opts Options) (*dataset.Dataset, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[models.ExportType]Strategy)
)

// Register makes a strategy available to Load and Decode.
// It panics if a strategy is already registered for the same type.
func Register(s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[s.Type()]; dup {
		panic(fmt.Sprintf("lssstools: strategy for %q registered twice", s.Type()))
	}
	registry[s.Type()] = s
}

// Supported returns the registered export types, sorted.
func Supported() []models.ExportType {
	registryMu.RLock()
	defer registryMu.RUnlock()
	types := make([]models.ExportType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// dispatch returns the strategy registered for t.
func dispatch(t models.ExportType) (Strategy, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[t]
	if !ok {
		return nil, &ExportTypeError{Type: t}
	}
	return s, nil
}

func init() {
	Register(svStrategy{})
	Register(tsStrategy{})
}

package lssstools

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := writeFile(t, "sv.json", svExample)
	h, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, path, h.Path())
	assert.Equal(t, models.ExportBroadbandSv, h.Type())
	assert.Equal(t, []string{"exportType", "lsssVersion"}, h.Info().Keys())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/export.json", DefaultOptions())
	assert.Error(t, err)
}

func TestDecodeUnsupportedExportType(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown", `{"info":{"exportType":"NarrowbandSv"},"regions":[]}`},
		{"empty", `{"info":{"exportType":""},"pings":[]}`},
		{"absent", `{"info":{"lsssVersion":"2.14"},"pings":[]}`},
		{"not a string", `{"info":{"exportType":3},"pings":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), DefaultOptions())
			require.ErrorIs(t, err, ErrUnsupportedExportType)
			var terr *ExportTypeError
			assert.True(t, errors.As(err, &terr))
		})
	}
}

// recordingStrategy records whether the dispatcher handed it a payload.
type recordingStrategy struct {
	decoded *bool
}

func (recordingStrategy) Type() models.ExportType { return "RecordingTest" }

func (s recordingStrategy) Decode(map[string]json.RawMessage, *models.Document) error {
	*s.decoded = true
	return nil
}

func (recordingStrategy) Table(*models.Document, Options) (*TableResult, error) {
	return &TableResult{}, nil
}

func TestDispatcherRejectsBeforePayload(t *testing.T) {
	// a malformed payload behind an unknown type is never looked at
	doc := `{"info":{"exportType":"Mystery"},"regions":[{"pings":"not a list"}],"pings":7}`
	_, err := Decode(strings.NewReader(doc), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnsupportedExportType)
	assert.NotErrorIs(t, err, ErrMalformedRecord)
}

func TestRegisterNewStrategy(t *testing.T) {
	decoded := false
	Register(recordingStrategy{decoded: &decoded})
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, "RecordingTest")
		registryMu.Unlock()
	})
	assert.Contains(t, Supported(), models.ExportType("RecordingTest"))

	h, err := Decode(strings.NewReader(`{"info":{"exportType":"RecordingTest"}}`), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, decoded)

	_, err = h.Dataset()
	assert.ErrorIs(t, err, ErrUnsupportedNcExport)

	assert.Panics(t, func() { Register(recordingStrategy{decoded: &decoded}) })
}

func TestSupported(t *testing.T) {
	types := Supported()
	assert.Contains(t, types, models.ExportBroadbandSv)
	assert.Contains(t, types, models.ExportBroadbandTS)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"info":`},
		{"no info", `{"regions":[]}`},
		{"info not object", `{"info":[1,2]}`},
		{"no regions", `{"info":{"exportType":"BroadbandSv"}}`},
		{"no pings", `{"info":{"exportType":"BroadbandTS"}}`},
		{"wrong payload type", `{"info":{"exportType":"BroadbandTS"},"pings":[{"number":"one"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), DefaultOptions())
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

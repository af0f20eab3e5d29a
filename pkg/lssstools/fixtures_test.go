package lssstools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// svExample is one region (object 7) with one ping holding a valid
// channel and an errored one.
const svExample = `{
  "info": {"exportType": "BroadbandSv", "lsssVersion": "2.14"},
  "regions": [
    {
      "objectNumber": 7, "labels": ["fish"], "scrutiny": true,
      "pings": [
        {
          "number": 3, "time": "2023-01-01T00:00:00Z",
          "channels": [
            {"minFrequency": 100, "maxFrequency": 200, "numFrequencies": 3,
             "depth": 50, "nominalFrequency": 150, "sv": [-60, -61, -62]},
            {"error": "Too few samples"}
          ]
        }
      ]
    }
  ]
}`

const svTwoRegions = `{
  "info": {"exportType": "BroadbandSv"},
  "regions": [
    {
      "objectNumber": 1, "labels": ["a"], "scrutiny": false,
      "pings": [
        {"number": 1, "time": "2023-01-01T00:00:00Z", "channels": [
          {"minFrequency": 90, "maxFrequency": 160, "numFrequencies": 4, "depth": 10, "nominalFrequency": 120, "sv": [-1, -2, -3, -4]},
          {"minFrequency": 34, "maxFrequency": 45, "numFrequencies": 2, "depth": 10, "nominalFrequency": 38, "sv": [-5, -6]}
        ]},
        {"number": 2, "time": "2023-01-01T00:00:01Z", "channels": [
          {"error": "bad"},
          {"minFrequency": 34, "maxFrequency": 45, "numFrequencies": 2, "depth": 11, "nominalFrequency": 38, "sv": [-7, -8]}
        ]}
      ]
    },
    {
      "objectNumber": 2, "labels": ["b", "c"], "scrutiny": true,
      "pings": [
        {"number": 5, "time": "2023-01-01T00:00:05Z", "channels": [
          {"minFrequency": 34, "maxFrequency": 45, "numFrequencies": 2, "depth": 12, "sv": [-9, -10]},
          {"minFrequency": 34, "maxFrequency": 45, "numFrequencies": 3, "depth": 12, "nominalFrequency": 38, "sv": [-9, -10]},
          {"minFrequency": 34, "maxFrequency": 45, "numFrequencies": 1, "depth": 12, "nominalFrequency": 38, "sv": [-11]}
        ]}
      ]
    }
  ]
}`

// tsExample has two pings; ping 2 carries an errored channel and two targets.
const tsExample = `{
  "info": {"exportType": "BroadbandTS", "version": 3, "survey": {"name": "MESO1", "year": 2023}, "calibrated": true},
  "pings": [
    {
      "number": 1, "time": "2023-01-01T00:00:00Z",
      "channels": [
        {"minFrequency": 100, "maxFrequency": 200, "numFrequencies": 3,
         "targets": [
           {"tsc": [-40, -41, -42], "alongshipAngle": 0.5, "athwartshipAngle": -0.5, "range": 20}
         ]}
      ]
    },
    {
      "number": 2, "time": "2023-01-01T00:00:01.5Z",
      "channels": [
        {"error": "No targets"},
        {"minFrequency": 100, "maxFrequency": 200, "numFrequencies": 3,
         "targets": [
           {"tsc": [-50, -51, -52], "alongshipAngle": 1, "athwartshipAngle": 2, "range": 30},
           {"tsc": [-60, -61, -62], "alongshipAngle": 3, "athwartshipAngle": 4, "range": 40}
         ]}
      ]
    }
  ]
}`

func mustDecode(t *testing.T, doc string, opts ...Options) *Handle {
	t.Helper()
	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	h, err := Decode(strings.NewReader(doc), o)
	require.NoError(t, err)
	return h
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

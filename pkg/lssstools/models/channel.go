package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ChannelKind discriminates valid channels from channels carrying an error marker.
type ChannelKind int

const (
	// ChannelValid carries sample data.
	ChannelValid ChannelKind = iota
	// ChannelErrored carries an "error" key instead of usable data.
	ChannelErrored
)

func (k ChannelKind) String() string {
	if k == ChannelErrored {
		return "errored"
	}
	return "valid"
}

// Channel represents one frequency-band acquisition path within a ping.
// Kind is decided once while decoding: any channel object with an
// "error" key is ChannelErrored, whatever the value of that key.
type Channel struct {
	// Kind is the channel variant.
	Kind ChannelKind `json:"-"`
	// Error is the textual error marker (ChannelErrored only).
	Error string `json:"error,omitempty"`
	// NominalFrequency is the nominal transducer frequency in Hz.
	NominalFrequency *float64 `json:"nominalFrequency,omitempty"`
	// MinFrequency is the lower (inclusive) frequency bound in Hz.
	MinFrequency *float64 `json:"minFrequency,omitempty"`
	// MaxFrequency is the upper (inclusive) frequency bound in Hz.
	MaxFrequency *float64 `json:"maxFrequency,omitempty"`
	// NumFrequencies is the number of frequency samples N.
	NumFrequencies *int `json:"numFrequencies,omitempty"`
	// Depth is the sample depth in metres (Sv only).
	Depth *float64 `json:"depth,omitempty"`
	// Sv is the backscatter per frequency sample (Sv only).
	Sv []float64 `json:"sv,omitempty"`
	// Targets lists single-target detections (TS only).
	Targets []Target `json:"targets,omitempty"`
	// DecodeErr is set when a field of a valid channel could not be decoded.
	// The channel keeps the fields that were read.
	DecodeErr error `json:"-"`
}

// UnmarshalJSON decodes a channel and classifies it. Only the error
// marker is read from errored channels. A field that fails to decode on
// a valid channel is recorded in DecodeErr rather than failing the
// whole document.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*c = Channel{Kind: ChannelValid, DecodeErr: fmt.Errorf("channel: %w", err)}
		return nil
	}
	if marker, ok := raw["error"]; ok {
		*c = Channel{Kind: ChannelErrored, Error: errorText(marker)}
		return nil
	}

	*c = Channel{Kind: ChannelValid}
	fields := []struct {
		key string
		dst any
	}{
		{"nominalFrequency", &c.NominalFrequency},
		{"minFrequency", &c.MinFrequency},
		{"maxFrequency", &c.MaxFrequency},
		{"numFrequencies", &c.NumFrequencies},
		{"depth", &c.Depth},
		{"sv", &c.Sv},
		{"targets", &c.Targets},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil && c.DecodeErr == nil {
			c.DecodeErr = fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}

// MarshalJSON encodes the channel, emitting the error marker for errored channels.
func (c Channel) MarshalJSON() ([]byte, error) {
	type plain Channel
	if c.Kind == ChannelErrored && c.Error == "" {
		p := plain(c)
		p.Error = "error"
		return json.Marshal(p)
	}
	return json.Marshal(plain(c))
}

// errorText renders the error marker value as text.
func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// MissingSv returns the names of the fields an Sv channel needs but lacks.
func (c Channel) MissingSv() []string {
	missing := c.missingAxis()
	if c.Depth == nil {
		missing = append(missing, "depth")
	}
	if c.NominalFrequency == nil {
		missing = append(missing, "nominalFrequency")
	}
	if c.Sv == nil {
		missing = append(missing, "sv")
	}
	return missing
}

// MissingTS returns the names of the fields a TS channel needs but lacks.
func (c Channel) MissingTS() []string {
	return c.missingAxis()
}

func (c Channel) missingAxis() []string {
	var missing []string
	if c.MinFrequency == nil {
		missing = append(missing, "minFrequency")
	}
	if c.MaxFrequency == nil {
		missing = append(missing, "maxFrequency")
	}
	if c.NumFrequencies == nil {
		missing = append(missing, "numFrequencies")
	}
	return missing
}

// Package models defines data structures for LSSS broadband exports.
package models

// ExportType is the declared variant of an export document (info.exportType).
type ExportType string

const (
	// ExportBroadbandSv is a per-region volume backscattering export.
	ExportBroadbandSv ExportType = "BroadbandSv"
	// ExportBroadbandTS is a per-ping single-target strength export.
	ExportBroadbandTS ExportType = "BroadbandTS"
)

// Document represents a fully decoded export.
// It is read-only once returned by the loader.
type Document struct {
	// Info is the file-level metadata block.
	Info Info `json:"info"`
	// Regions holds the region list of Sv exports.
	Regions []Region `json:"regions,omitempty"`
	// Pings holds the ping list of TS exports.
	Pings []Ping `json:"pings,omitempty"`
}

// ExportType returns the declared export type of the document.
func (d *Document) ExportType() ExportType {
	return d.Info.ExportType()
}

// AssignRegionIDs numbers regions by their position in the region list.
// The loader calls it once, so the identity travels with the region
// rather than with the loop that happens to visit it.
func (d *Document) AssignRegionIDs() {
	for i := range d.Regions {
		d.Regions[i].ID = i
	}
}

// Region represents an operator-annotated area of interest (Sv only).
type Region struct {
	// ID is the zero-based position of the region in the document.
	ID int `json:"-"`
	// ObjectNumber is the LSSS object number.
	ObjectNumber int `json:"objectNumber"`
	// Labels is the label set attached to the region.
	Labels []string `json:"labels"`
	// Scrutiny is the scrutiny flag.
	Scrutiny bool `json:"scrutiny"`
	// Pings lists the pings covered by the region, in document order.
	Pings []Ping `json:"pings"`
}

// Ping represents one transmitted/received acoustic pulse.
type Ping struct {
	// Number is the ping sequence number.
	Number int `json:"number"`
	// Time is the raw ISO-8601 timestamp. It is parsed at table assembly.
	Time string `json:"time"`
	// Channels lists the acquisition channels of the ping.
	Channels []Channel `json:"channels"`
}

// Target represents a single detected scatterer (TS only).
type Target struct {
	// TSC is the compensated target strength per frequency sample.
	TSC []float64 `json:"tsc"`
	// AlongshipAngle is the alongship angle in degrees.
	AlongshipAngle *float64 `json:"alongshipAngle"`
	// AthwartshipAngle is the athwartship angle in degrees.
	AthwartshipAngle *float64 `json:"athwartshipAngle"`
	// Range is the detection range in metres.
	Range *float64 `json:"range"`
}

// Missing returns the names of required target fields that are absent.
func (t Target) Missing() []string {
	var missing []string
	if t.TSC == nil {
		missing = append(missing, "tsc")
	}
	if t.AlongshipAngle == nil {
		missing = append(missing, "alongshipAngle")
	}
	if t.AthwartshipAngle == nil {
		missing = append(missing, "athwartshipAngle")
	}
	if t.Range == nil {
		missing = append(missing, "range")
	}
	return missing
}

// Package lssstools flattens LSSS broadband JSON exports into tables and
// multi-dimensional datasets.
package lssstools

import "go.uber.org/zap"

// Options configures conversion behavior.
type Options struct {
	// Logger receives conversion diagnostics. If nil, logging is disabled.
	Logger *zap.Logger
	// StrictFrequency makes the TS table fail when a target's tsc length
	// differs from its channel's numFrequencies. If nil, defaults to true.
	// When false, such targets get their own axis over the channel bounds.
	StrictFrequency *bool
	// TimeLayouts are extra timestamp layouts tried after the defaults.
	TimeLayouts []string
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldEnforceFrequencyMatch returns whether tsc lengths must match numFrequencies.
func (o Options) ShouldEnforceFrequencyMatch() bool {
	if o.StrictFrequency != nil {
		return *o.StrictFrequency
	}
	return true
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

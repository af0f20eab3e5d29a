package lssstools

import (
	"encoding/json"
	"fmt"

	"github.com/lssstools/lssstools-go/pkg/lssstools/freqaxis"
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
	"go.uber.org/zap"
)

// TSSchema is the column layout of a flattened BroadbandTS export.
var TSSchema = table.Schema{
	{Name: "frequency", Kind: table.Float},
	{Name: "compensated_TS", Kind: table.Float},
	{Name: "single_target_alongship_angle", Kind: table.Float},
	{Name: "single_target_athwartship_angle", Kind: table.Float},
	{Name: "ping_time", Kind: table.Time},
	{Name: "ping_number", Kind: table.Int},
	{Name: "single_target_range", Kind: table.Float},
	{Name: "single_target_count", Kind: table.Int},
}

type tsStrategy struct{}

func (tsStrategy) Type() models.ExportType { return models.ExportBroadbandTS }

func (tsStrategy) Decode(raw map[string]json.RawMessage, doc *models.Document) error {
	return decodePayload(raw, "pings", &doc.Pings)
}

// tsChannelAxis returns the declared frequency axis of a TS channel.
func tsChannelAxis(ref ChannelRef) (freqaxis.Axis, error) {
	ch := ref.Channel
	if ch.DecodeErr != nil {
		return freqaxis.Axis{}, NewRecordError(ref.Path(), "",
			fmt.Errorf("%w: %w", ErrMalformedRecord, ch.DecodeErr))
	}
	if missing := ch.MissingTS(); len(missing) > 0 {
		return freqaxis.Axis{}, missingFields(ref.Path(), missing)
	}
	axis := freqaxis.Axis{Min: *ch.MinFrequency, Max: *ch.MaxFrequency, Count: *ch.NumFrequencies}
	if axis.Count < 0 {
		return freqaxis.Axis{}, NewRecordError(ref.Path(), "numFrequencies",
			fmt.Errorf("%w: negative count %d", ErrMalformedRecord, axis.Count))
	}
	return axis, nil
}

// Table emits one row per (ping, channel, target, frequency sample). Each
// channel gets its own frequency axis. Malformed records abort the walk.
func (tsStrategy) Table(doc *models.Document, opts Options) (*TableResult, error) {
	log := opts.logger()
	strict := opts.ShouldEnforceFrequencyMatch()
	b, err := table.NewBuilder(TSSchema, opts.TimeLayouts...)
	if err != nil {
		return nil, err
	}
	var (
		frequency   = b.Float("frequency")
		tsc         = b.Float("compensated_TS")
		alongship   = b.Float("single_target_alongship_angle")
		athwartship = b.Float("single_target_athwartship_angle")
		pingTime    = b.Time("ping_time")
		pingNumber  = b.Int("ping_number")
		rng         = b.Float("single_target_range")
		count       = b.Int("single_target_count")
	)

	var pl pingLog
	err = walkChannels(doc, func(ref ChannelRef) error {
		if ref.Channel.Kind == models.ChannelErrored {
			log.Warn("Skipping channel",
				zap.Int("ping", ref.Ping.Number),
				zap.Int("channel", ref.ChannelIndex),
				zap.String("reason", ref.Channel.Error))
			pl.skip(ref, "error: "+ref.Channel.Error)
			return nil
		}

		axis, err := tsChannelAxis(ref)
		if err != nil {
			return err
		}
		// generated on the first target whose tsc matches the declared count
		var channelFreq []float64

		for ti := range ref.Channel.Targets {
			t := &ref.Channel.Targets[ti]
			path := TargetRef{ChannelRef: ref, TargetIndex: ti}.Path()
			if missing := t.Missing(); len(missing) > 0 {
				return missingFields(path, missing)
			}

			m := len(t.TSC)
			var freqs []float64
			switch {
			case m == axis.Count:
				if channelFreq == nil {
					if channelFreq, err = axis.Values(); err != nil {
						return err
					}
				}
				freqs = channelFreq
			case strict:
				return NewRecordError(path, "tsc", fmt.Errorf("%w: %d samples on a %d-point axis",
					ErrFrequencyAxisMismatch, m, axis.Count))
			default:
				if freqs, err = freqaxis.Linspace(axis.Min, axis.Max, m); err != nil {
					return err
				}
			}

			frequency.Extend(freqs...)
			tsc.Extend(t.TSC...)
			alongship.Repeat(*t.AlongshipAngle, m)
			athwartship.Repeat(*t.AthwartshipAngle, m)
			pingTime.Repeat(ref.Ping.Time, m)
			pingNumber.Repeat(int64(ref.Ping.Number), m)
			rng.Repeat(*t.Range, m)
			count.Repeat(int64(axis.Count), m)
		}
		pl.keep(ref)
		return nil
	})
	if err != nil {
		return nil, err
	}

	tbl, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	log.Info("Flattened TS export",
		zap.Int("pings", len(doc.Pings)),
		zap.Int("rows", tbl.Len()),
		zap.Int("skipped_channels", len(pl.skipped)))

	return &TableResult{
		Type:    models.ExportBroadbandTS,
		Table:   tbl,
		Skipped: pl.skipped,
		OKPings: pl.ok,
	}, nil
}

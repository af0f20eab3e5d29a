package lssstools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lssstools/lssstools-go/pkg/lssstools/freqaxis"
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
	"go.uber.org/zap"
)

// SvSchema is the column layout of a flattened BroadbandSv export.
var SvSchema = table.Schema{
	{Name: "region", Kind: table.Int},
	{Name: "labels", Kind: table.StringList},
	{Name: "scrutiny", Kind: table.Bool},
	{Name: "objectnumber", Kind: table.Int},
	{Name: "number", Kind: table.Int},
	{Name: "time", Kind: table.Time},
	{Name: "depth", Kind: table.Float},
	{Name: "nominalFrequency", Kind: table.Float},
	{Name: "Sv", Kind: table.Float},
	{Name: "freq", Kind: table.Float},
}

type svStrategy struct{}

func (svStrategy) Type() models.ExportType { return models.ExportBroadbandSv }

func (svStrategy) Decode(raw map[string]json.RawMessage, doc *models.Document) error {
	if err := decodePayload(raw, "regions", &doc.Regions); err != nil {
		return err
	}
	doc.AssignRegionIDs()
	return nil
}

// Table emits one row per (region, ping, channel, frequency sample).
// Channels that are errored or unusable, or whose ping time does not
// parse, are skipped and recorded.
func (svStrategy) Table(doc *models.Document, opts Options) (*TableResult, error) {
	log := opts.logger()
	b, err := table.NewBuilder(SvSchema, opts.TimeLayouts...)
	if err != nil {
		return nil, err
	}
	var (
		region      = b.Int("region")
		labels      = b.StringList("labels")
		scrutiny    = b.Bool("scrutiny")
		objectNum   = b.Int("objectnumber")
		number      = b.Int("number")
		pingTime    = b.Time("time")
		depth       = b.Float("depth")
		nominalFreq = b.Float("nominalFrequency")
		sv          = b.Float("Sv")
		freq        = b.Float("freq")
	)

	var pl pingLog
	times := newPingTimes(opts.TimeLayouts)
	err = walkChannels(doc, func(ref ChannelRef) error {
		axis, reason := svChannelAxis(ref.Channel)
		if reason == "" {
			reason = times.reason(ref.Ping.Time)
		}
		if reason != "" {
			log.Warn("Skipping channel",
				zap.Int("region", ref.Region.ID),
				zap.Int("ping", ref.Ping.Number),
				zap.Int("channel", ref.ChannelIndex),
				zap.String("reason", reason))
			pl.skip(ref, reason)
			return nil
		}

		ch := ref.Channel
		n := len(axis)
		region.Repeat(int64(ref.Region.ID), n)
		labels.Repeat(ref.Region.Labels, n)
		scrutiny.Repeat(ref.Region.Scrutiny, n)
		objectNum.Repeat(int64(ref.Region.ObjectNumber), n)
		number.Repeat(int64(ref.Ping.Number), n)
		pingTime.Repeat(ref.Ping.Time, n)
		depth.Repeat(*ch.Depth, n)
		nominalFreq.Repeat(*ch.NominalFrequency, n)
		sv.Extend(ch.Sv...)
		freq.Extend(axis...)
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

	log.Info("Flattened Sv export",
		zap.Int("regions", len(doc.Regions)),
		zap.Int("rows", tbl.Len()),
		zap.Int("skipped_channels", len(pl.skipped)))

	return &TableResult{
		Type:    models.ExportBroadbandSv,
		Table:   tbl,
		Skipped: pl.skipped,
		OKPings: pl.ok,
	}, nil
}

// svChannelAxis returns the frequency axis of a usable Sv channel, or
// the reason the channel must be skipped. The declared count is checked
// against the samples before the axis is generated.
func svChannelAxis(ch *models.Channel) ([]float64, string) {
	if ch.Kind == models.ChannelErrored {
		return nil, "error: " + ch.Error
	}
	if ch.DecodeErr != nil {
		return nil, "decode " + ch.DecodeErr.Error()
	}
	if missing := ch.MissingSv(); len(missing) > 0 {
		return nil, "missing " + strings.Join(missing, ", ")
	}
	n := *ch.NumFrequencies
	if n < 0 {
		return nil, fmt.Sprintf("numFrequencies is negative: %d", n)
	}
	if len(ch.Sv) != n {
		return nil, fmt.Sprintf("sv has %d samples, numFrequencies is %d", len(ch.Sv), n)
	}
	axis, err := freqaxis.Linspace(*ch.MinFrequency, *ch.MaxFrequency, n)
	if err != nil {
		return nil, err.Error()
	}
	return axis, ""
}

// pingTimes remembers which raw ping timestamps parse.
type pingTimes struct {
	layouts []string
	checked map[string]error
}

func newPingTimes(extra []string) *pingTimes {
	return &pingTimes{
		layouts: append(append([]string(nil), table.DefaultTimeLayouts...), extra...),
		checked: make(map[string]error),
	}
}

// reason returns why raw cannot be used as a ping time, or "".
func (p *pingTimes) reason(raw string) string {
	err, ok := p.checked[raw]
	if !ok {
		_, err = table.ParseTime(raw, p.layouts...)
		p.checked[raw] = err
	}
	if err != nil {
		return fmt.Sprintf("time %q: %v", raw, err)
	}
	return ""
}

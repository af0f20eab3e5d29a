package lssstools

import (
	"fmt"

	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
)

// ChannelRef locates a channel in document order.
type ChannelRef struct {
	Region       *models.Region // nil for TS documents
	PingIndex    int
	Ping         *models.Ping
	ChannelIndex int
	Channel      *models.Channel
}

// Path renders the location of the channel, e.g. "regions[0].pings[3].channels[1]".
func (r ChannelRef) Path() string {
	p := fmt.Sprintf("pings[%d].channels[%d]", r.PingIndex, r.ChannelIndex)
	if r.Region != nil {
		p = fmt.Sprintf("regions[%d].%s", r.Region.ID, p)
	}
	return p
}

// TargetRef locates a target in document order.
type TargetRef struct {
	ChannelRef
	TargetIndex int
	Target      *models.Target
	// ID is the absolute index of the target among all targets of valid channels.
	ID int
}

// Path renders the location of the target.
func (r TargetRef) Path() string {
	return fmt.Sprintf("%s.targets[%d]", r.ChannelRef.Path(), r.TargetIndex)
}

// walkChannels visits every channel of doc in document order: regions,
// then their pings, then channels for Sv; pings then channels for TS.
func walkChannels(doc *models.Document, fn func(ChannelRef) error) error {
	visitPings := func(region *models.Region, pings []models.Ping) error {
		for pi := range pings {
			ping := &pings[pi]
			for ci := range ping.Channels {
				ref := ChannelRef{
					Region:       region,
					PingIndex:    pi,
					Ping:         ping,
					ChannelIndex: ci,
					Channel:      &ping.Channels[ci],
				}
				if err := fn(ref); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for ri := range doc.Regions {
		region := &doc.Regions[ri]
		if err := visitPings(region, region.Pings); err != nil {
			return err
		}
	}
	return visitPings(nil, doc.Pings)
}

// targetVisitor receives callbacks from walkTargets. Either may be nil.
type targetVisitor struct {
	// channel is called for each valid channel before its targets.
	channel func(ChannelRef) error
	// target is called for each target of a valid channel.
	target func(TargetRef) error
}

// walkTargets visits the targets of every valid channel in document
// order and numbers them from zero. Errored channels are passed over and
// never contribute an ID. Sizing and filling both go through here so
// the two passes cannot disagree on order.
func walkTargets(doc *models.Document, v targetVisitor) (int, error) {
	id := 0
	err := walkChannels(doc, func(ref ChannelRef) error {
		if ref.Channel.Kind == models.ChannelErrored {
			return nil
		}
		if v.channel != nil {
			if err := v.channel(ref); err != nil {
				return err
			}
		}
		for ti := range ref.Channel.Targets {
			if v.target != nil {
				tref := TargetRef{
					ChannelRef:  ref,
					TargetIndex: ti,
					Target:      &ref.Channel.Targets[ti],
					ID:          id,
				}
				if err := v.target(tref); err != nil {
					return err
				}
			}
			id++
		}
		return nil
	})
	return id, err
}

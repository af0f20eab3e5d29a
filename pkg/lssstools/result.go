package lssstools

import (
	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/lssstools/lssstools-go/pkg/lssstools/table"
)

// SkippedChannel records a channel that contributed no rows.
type SkippedChannel struct {
	Region  int    `json:"region"` // -1 for TS documents
	Ping    int    `json:"ping"`
	Channel int    `json:"channel"`
	Reason  string `json:"reason"`
}

// TableResult is the flat output of a strategy.
type TableResult struct {
	// Type is the export type that produced the table.
	Type models.ExportType
	// Table holds one row per finest-grained sample.
	Table *table.Table
	// Skipped lists channels left out of the table, in document order.
	Skipped []SkippedChannel
	// OKPings lists ping numbers with at least one contributing channel,
	// in first-seen order.
	OKPings []int
}

// FailedPings returns the ping numbers of skipped channels in first-seen order.
func (r *TableResult) FailedPings() []int {
	seen := make(map[int]bool)
	var pings []int
	for _, s := range r.Skipped {
		if !seen[s.Ping] {
			seen[s.Ping] = true
			pings = append(pings, s.Ping)
		}
	}
	return pings
}

// pingLog collects per-channel outcomes during a walk.
type pingLog struct {
	skipped []SkippedChannel
	ok      []int
	seen    map[int]bool
}

func (l *pingLog) skip(ref ChannelRef, reason string) {
	region := -1
	if ref.Region != nil {
		region = ref.Region.ID
	}
	l.skipped = append(l.skipped, SkippedChannel{
		Region:  region,
		Ping:    ref.Ping.Number,
		Channel: ref.ChannelIndex,
		Reason:  reason,
	})
}

func (l *pingLog) keep(ref ChannelRef) {
	if l.seen == nil {
		l.seen = make(map[int]bool)
	}
	if !l.seen[ref.Ping.Number] {
		l.seen[ref.Ping.Number] = true
		l.ok = append(l.ok, ref.Ping.Number)
	}
}

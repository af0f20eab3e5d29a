package lssstools

import (
	"strings"
	"testing"
	"time"

	"github.com/lssstools/lssstools-go/pkg/lssstools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSvExample(t *testing.T) {
	res, err := mustDecode(t, svExample).ToTable()
	require.NoError(t, err)

	tbl := res.Table
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"region", "labels", "scrutiny", "objectnumber", "number", "time",
		"depth", "nominalFrequency", "Sv", "freq"}, tbl.Columns())

	col := func(name string) []any {
		c, ok := tbl.Column(name)
		require.True(t, ok, name)
		out := make([]any, c.Len())
		for i := range out {
			out[i] = c.Value(i)
		}
		return out
	}
	assert.Equal(t, []any{int64(0), int64(0), int64(0)}, col("region"))
	assert.Equal(t, []any{int64(7), int64(7), int64(7)}, col("objectnumber"))
	assert.Equal(t, []any{int64(3), int64(3), int64(3)}, col("number"))
	assert.Equal(t, []any{50.0, 50.0, 50.0}, col("depth"))
	assert.Equal(t, []any{150.0, 150.0, 150.0}, col("nominalFrequency"))
	assert.Equal(t, []any{100.0, 150.0, 200.0}, col("freq"))
	assert.Equal(t, []any{-60.0, -61.0, -62.0}, col("Sv"))
	assert.Equal(t, []any{true, true, true}, col("scrutiny"))
	assert.Equal(t, []string{"fish"}, col("labels")[2])

	ts, _ := tbl.Column("time")
	for _, v := range ts.Times() {
		assert.True(t, v.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	}

	assert.Equal(t, []int{3}, res.FailedPings())
	assert.Equal(t, []int{3}, res.OKPings)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkippedChannel{Region: 0, Ping: 3, Channel: 1, Reason: "error: Too few samples"}, res.Skipped[0])
}

func TestSvRowCountAndSkips(t *testing.T) {
	res, err := mustDecode(t, svTwoRegions).ToTable()
	require.NoError(t, err)

	// valid channels: 4 + 2 (ping 1), 2 (ping 2), 1 (ping 5)
	assert.Equal(t, 9, res.Table.Len())

	reasons := make([]string, len(res.Skipped))
	for i, s := range res.Skipped {
		reasons[i] = s.Reason
	}
	assert.Equal(t, []string{
		"error: bad",
		"missing nominalFrequency",
		"sv has 2 samples, numFrequencies is 3",
	}, reasons)
	assert.Equal(t, []int{2, 5}, res.FailedPings())
	assert.Equal(t, []int{1, 2, 5}, res.OKPings)

	region, _ := res.Table.Column("region")
	assert.Equal(t, []int64{0, 0, 0, 0, 0, 0, 0, 0, 1}, region.Ints())
	number, _ := res.Table.Column("number")
	assert.Equal(t, []int64{1, 1, 1, 1, 1, 1, 2, 2, 5}, number.Ints())
	depth, _ := res.Table.Column("depth")
	assert.Equal(t, []float64{10, 10, 10, 10, 10, 10, 11, 11, 12}, depth.Floats())
	labels, _ := res.Table.Column("labels")
	assert.Equal(t, []string{"b", "c"}, labels.Lists()[8])
	freq, _ := res.Table.Column("freq")
	assert.Equal(t, []float64{34}, freq.Floats()[8:])
}

func TestSvSkipIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	opts := Options{Logger: zap.New(core)}

	_, err := mustDecode(t, svExample, opts).ToTable()
	require.NoError(t, err)

	entries := logs.FilterMessage("Skipping channel").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["ping"])
	assert.Equal(t, "error: Too few samples", fields["reason"])
}

func TestSvBadTimestampSkipsPing(t *testing.T) {
	doc := `{"info":{"exportType":"BroadbandSv"},"regions":[{"objectNumber":1,"labels":[],"scrutiny":false,
		"pings":[
		{"number":1,"time":"not a time","channels":[
			{"minFrequency":1,"maxFrequency":2,"numFrequencies":2,"depth":1,"nominalFrequency":1,"sv":[1,2]}]},
		{"number":2,"time":"2023-01-01T00:00:00Z","channels":[
			{"minFrequency":1,"maxFrequency":2,"numFrequencies":2,"depth":1,"nominalFrequency":1,"sv":[3,4]}]}]}]}`
	res, err := mustDecode(t, doc).ToTable()
	require.NoError(t, err)

	assert.Equal(t, 2, res.Table.Len())
	number, _ := res.Table.Column("number")
	assert.Equal(t, []int64{2, 2}, number.Ints())
	assert.Equal(t, []int{1}, res.FailedPings())
	require.Len(t, res.Skipped, 1)
	assert.True(t, strings.HasPrefix(res.Skipped[0].Reason, `time "not a time"`), res.Skipped[0].Reason)
}

func TestSvUnusableChannelsDoNotStopSiblings(t *testing.T) {
	doc := `{"info":{"exportType":"BroadbandSv"},"regions":[{"objectNumber":1,"labels":[],"scrutiny":false,
		"pings":[{"number":1,"time":"2023-01-01T00:00:00Z","channels":[
			{"minFrequency":1,"maxFrequency":2,"numFrequencies":4611686018427387904,"depth":1,"nominalFrequency":1,"sv":[1,2]},
			{"minFrequency":1,"maxFrequency":2,"numFrequencies":-2,"depth":1,"nominalFrequency":1,"sv":[1,2]},
			{"minFrequency":1,"maxFrequency":2,"numFrequencies":2,"depth":"NaN","nominalFrequency":1,"sv":[1,2]},
			{"error":"x","sv":"n/a"},
			{"minFrequency":10,"maxFrequency":20,"numFrequencies":2,"depth":5,"nominalFrequency":15,"sv":[-70,-71]}]}]}]}`
	res, err := mustDecode(t, doc).ToTable()
	require.NoError(t, err)

	freq, _ := res.Table.Column("freq")
	assert.Equal(t, []float64{10, 20}, freq.Floats())
	sv, _ := res.Table.Column("Sv")
	assert.Equal(t, []float64{-70, -71}, sv.Floats())
	assert.Equal(t, []int{1}, res.OKPings)

	require.Len(t, res.Skipped, 4)
	assert.Equal(t, "sv has 2 samples, numFrequencies is 4611686018427387904", res.Skipped[0].Reason)
	assert.Equal(t, "numFrequencies is negative: -2", res.Skipped[1].Reason)
	assert.True(t, strings.HasPrefix(res.Skipped[2].Reason, "decode depth: "), res.Skipped[2].Reason)
	assert.Equal(t, "error: x", res.Skipped[3].Reason)
	for i, s := range res.Skipped {
		assert.Equal(t, i, s.Channel)
	}
}

func TestSvRegionIDsArePositional(t *testing.T) {
	h := mustDecode(t, svTwoRegions)
	doc := h.Document()
	require.Len(t, doc.Regions, 2)
	assert.Equal(t, 0, doc.Regions[0].ID)
	assert.Equal(t, 1, doc.Regions[1].ID)
	assert.Equal(t, models.ExportBroadbandSv, h.Type())
}

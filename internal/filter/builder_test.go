package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tripfilter/internal/trip"
)

func TestChainBuilder_DefaultStageOrder(t *testing.T) {
	c := NewChainBuilder(false).
		WithLatestDepartureTime(t0.Add(time.Hour)).
		WithTransitSlack(60 * time.Second).
		Build()

	assert.Equal(t, []string{
		"transit-vs-street-filter",
		"timetable-variation-filter",
		"group-by-distance-filter",
		"latest-departure-time-filter",
		"sort-filter",
		"number-of-itineraries-filter",
	}, c.StageNames())
}

func TestChainBuilder_StageInclusion(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*ChainBuilder) *ChainBuilder
		want      []string
	}{
		{
			name:      "defaults",
			configure: func(b *ChainBuilder) *ChainBuilder { return b },
			want: []string{
				"transit-vs-street-filter",
				"group-by-distance-filter",
				"sort-filter",
				"number-of-itineraries-filter",
			},
		},
		{
			name: "dominance disabled",
			configure: func(b *ChainBuilder) *ChainBuilder {
				return b.WithRemoveTransitCostlierThanStreet(false)
			},
			want: []string{
				"group-by-distance-filter",
				"sort-filter",
				"number-of-itineraries-filter",
			},
		},
		{
			name: "positive transit slack enables variation reducer",
			configure: func(b *ChainBuilder) *ChainBuilder {
				return b.WithTransitSlack(60 * time.Second)
			},
			want: []string{
				"transit-vs-street-filter",
				"timetable-variation-filter",
				"group-by-distance-filter",
				"sort-filter",
				"number-of-itineraries-filter",
			},
		},
		{
			name: "zero transit slack stays disabled",
			configure: func(b *ChainBuilder) *ChainBuilder {
				return b.WithTransitSlack(0)
			},
			want: []string{
				"transit-vs-street-filter",
				"group-by-distance-filter",
				"sort-filter",
				"number-of-itineraries-filter",
			},
		},
		{
			name: "negative transit slack stays disabled",
			configure: func(b *ChainBuilder) *ChainBuilder {
				return b.WithTransitSlack(-30 * time.Second)
			},
			want: []string{
				"transit-vs-street-filter",
				"group-by-distance-filter",
				"sort-filter",
				"number-of-itineraries-filter",
			},
		},
		{
			name: "departure cutoff set",
			configure: func(b *ChainBuilder) *ChainBuilder {
				return b.WithLatestDepartureTime(t0.Add(time.Hour))
			},
			want: []string{
				"transit-vs-street-filter",
				"group-by-distance-filter",
				"latest-departure-time-filter",
				"sort-filter",
				"number-of-itineraries-filter",
			},
		},
		{
			name: "max below min omits the cap",
			configure: func(b *ChainBuilder) *ChainBuilder {
				return b.WithApproximateMinLimit(5).WithMaxLimit(3)
			},
			want: []string{
				"transit-vs-street-filter",
				"group-by-distance-filter",
				"sort-filter",
			},
		},
		{
			name: "max equal to min keeps the cap",
			configure: func(b *ChainBuilder) *ChainBuilder {
				return b.WithApproximateMinLimit(5).WithMaxLimit(5)
			},
			want: []string{
				"transit-vs-street-filter",
				"group-by-distance-filter",
				"sort-filter",
				"number-of-itineraries-filter",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.configure(NewChainBuilder(false)).Build()

			assert.Equal(t, tt.want, c.StageNames())
		})
	}
}

func TestChainBuilder_BuildIsDeterministic(t *testing.T) {
	build := func() *Chain {
		return NewChainBuilder(true).
			WithGroupByP(0.5).
			WithTransitSlack(2 * time.Minute).
			WithMaxLimit(10).
			Build()
	}

	assert.Equal(t, build().StageNames(), build().StageNames())
}

func TestChainBuilder_DebugWrapsEveryStage(t *testing.T) {
	plain := NewChainBuilder(false).WithTransitSlack(time.Minute).Build()
	debug := NewChainBuilder(false).WithTransitSlack(time.Minute).WithDebug().Build()

	require.Len(t, debug.Filters(), len(plain.Filters()))

	// Same stage names in the same order, each behind the debug decorator.
	assert.Equal(t, plain.StageNames(), debug.StageNames())

	for _, f := range debug.Filters() {
		assert.IsType(t, &DebugWrapper{}, f)
	}
}

func TestChainBuilder_ChainIsReusable(t *testing.T) {
	c := NewChainBuilder(false).Build()

	input := func() []*trip.Itinerary {
		return []*trip.Itinerary{
			busTrip(100, "L1", 10, 40),
			busTrip(90, "L2", 15, 45),
			walkOnly(120, 50),
		}
	}

	first := c.Apply(input())
	second := c.Apply(input())

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].String(), second[i].String())
	}
}

func TestChainBuilder_EndToEnd(t *testing.T) {
	// 8 candidates: 2 transit itineraries dominated by the best walk,
	// grouping collapses the remaining 6 into 4. The cap (5) is never hit,
	// so the subscriber must stay silent.
	var notified []*trip.Itinerary

	c := NewChainBuilder(false).
		WithApproximateMinLimit(3).
		WithMaxLimit(5).
		WithGroupByP(0.68).
		WithMaxLimitReachedSubscriber(func(it *trip.Itinerary) {
			notified = append(notified, it)
		}).
		Build()

	input := []*trip.Itinerary{
		busTrip(300, "L1", 10, 40), // dominated: costlier than walk
		busTrip(280, "L2", 20, 50), // dominated
		busTrip(100, "L1", 10, 40),
		busTrip(110, "L1", 20, 50), // same corridor as above, grouped away
		busTrip(90, "L2", 12, 35),
		busTrip(95, "L2", 22, 45), // grouped with the L2 trip above
		busTrip(85, "L4", 16, 33),
		walkOnly(200, 55),
	}

	out := c.Apply(input)

	require.Len(t, out, 4)
	assert.Empty(t, notified)

	// Sorted by arrival time ascending (depart-after search).
	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].EndTime().Before(out[i-1].EndTime()),
			"output not sorted at index %d", i)
	}
}

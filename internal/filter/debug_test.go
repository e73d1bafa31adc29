package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tripfilter/internal/trip"
)

func TestDebugWrapper_KeepsRemovedItineraries(t *testing.T) {
	cutoff := NewLatestDepartureFilter(t0.Add(15 * time.Minute))

	early := busTrip(100, "L1", 10, 40)
	late := busTrip(90, "L2", 30, 60)

	input := []*trip.Itinerary{early, late}

	// Plain: the late itinerary is removed.
	plain := cutoff.Apply(input)
	require.Len(t, plain, 1)

	// Wrapped: nothing is removed, the late one is tagged.
	late2 := busTrip(90, "L2", 30, 60)
	out := NewDebugWrapper(cutoff).Apply([]*trip.Itinerary{early, late2})

	require.Len(t, out, 2)
	assert.Same(t, early, out[0])
	assert.Same(t, late2, out[1])
	assert.False(t, early.HasSystemNotice(cutoff.Name()))
	assert.True(t, late2.HasSystemNotice(cutoff.Name()))
}

func TestDebugWrapper_PreservesOriginalPositions(t *testing.T) {
	cutoff := NewLatestDepartureFilter(t0.Add(15 * time.Minute))

	a := busTrip(1, "L1", 30, 60) // removed
	b := busTrip(2, "L2", 10, 40)
	c := busTrip(3, "L3", 40, 70) // removed
	d := busTrip(4, "L4", 12, 42)

	out := NewDebugWrapper(cutoff).Apply([]*trip.Itinerary{a, b, c, d})

	require.Len(t, out, 4)
	assert.Equal(t, []*trip.Itinerary{a, b, c, d}, out)
	assert.True(t, a.HasSystemNotice(cutoff.Name()))
	assert.True(t, c.HasSystemNotice(cutoff.Name()))
	assert.Empty(t, b.SystemNotices)
	assert.Empty(t, d.SystemNotices)
}

func TestDebugWrapper_PassesReorderingThrough(t *testing.T) {
	sorter := NewSortFilter(false)

	slow := busTrip(100, "L1", 10, 50)
	fast := busTrip(100, "L2", 10, 30)

	out := NewDebugWrapper(sorter).Apply([]*trip.Itinerary{slow, fast})

	// Sort removes nothing, so its reordering must survive the wrapper.
	require.Len(t, out, 2)
	assert.Same(t, fast, out[0])
	assert.Same(t, slow, out[1])
	assert.Empty(t, fast.SystemNotices)
	assert.Empty(t, slow.SystemNotices)
}

func TestDebugWrapper_Name(t *testing.T) {
	f := NewDebugWrapper(NewSortFilter(false))

	assert.Equal(t, "sort-filter", f.Name())
}

func TestDebugWrapper_CountRemovedEqualsTagged(t *testing.T) {
	// A chain stage that would remove k itineraries tags exactly k in
	// debug mode, leaving the output length equal to the input length.
	dominance := NewStreetDominanceFilter()

	input := []*trip.Itinerary{
		walkOnly(100, 20),
		busTrip(150, "L1", 10, 40), // dominated
		busTrip(90, "L2", 10, 35),
		busTrip(200, "L3", 10, 45), // dominated
	}

	removed := len(input) - len(dominance.Apply(input))
	require.Equal(t, 2, removed)

	out := NewDebugWrapper(dominance).Apply(input)
	require.Len(t, out, len(input))

	tagged := 0

	for _, it := range out {
		if it.HasSystemNotice(dominance.Name()) {
			tagged++
		}
	}

	assert.Equal(t, removed, tagged)
}

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tripfilter/internal/trip"
)

func TestStreetDominanceFilter_NoStreetBaseline(t *testing.T) {
	f := NewStreetDominanceFilter()

	input := []*trip.Itinerary{
		busTrip(500, "L1", 10, 40),
		busTrip(900, "L2", 15, 45),
	}

	assert.Equal(t, input, f.Apply(input))
}

func TestStreetDominanceFilter_RemovesCostlierTransit(t *testing.T) {
	f := NewStreetDominanceFilter()

	walk := walkOnly(100, 25)
	cheap := busTrip(80, "L1", 10, 30)
	equal := busTrip(100, "L2", 10, 32)
	costly := busTrip(101, "L3", 10, 20)

	out := f.Apply([]*trip.Itinerary{walk, cheap, equal, costly})

	require.Len(t, out, 3)
	assert.Contains(t, out, walk)
	assert.Contains(t, out, cheap)
	assert.Contains(t, out, equal)
	assert.NotContains(t, out, costly)
}

func TestStreetDominanceFilter_UsesCheapestBaseline(t *testing.T) {
	f := NewStreetDominanceFilter()

	expensiveWalk := walkOnly(300, 40)
	bike := itin(120, leg(trip.ModeBicycle, "", "A", "B", 0, 15, 4000))
	transit := busTrip(200, "L1", 5, 25)

	out := f.Apply([]*trip.Itinerary{expensiveWalk, bike, transit})

	// Baseline is the bike at 120, so the 200-cost transit trip goes.
	require.Len(t, out, 2)
	assert.NotContains(t, out, transit)
}

func TestStreetDominanceFilter_KeepsStreetItineraries(t *testing.T) {
	f := NewStreetDominanceFilter()

	cheapWalk := walkOnly(50, 20)
	costlyCar := itin(400, leg(trip.ModeCar, "", "A", "B", 0, 10, 9000))

	out := f.Apply([]*trip.Itinerary{cheapWalk, costlyCar})

	// Street itineraries are never dominated, whatever their cost.
	assert.Len(t, out, 2)
}

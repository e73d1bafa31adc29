package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tripfilter/internal/trip"
)

func TestLatestDepartureFilter(t *testing.T) {
	limit := t0.Add(20 * time.Minute)
	f := NewLatestDepartureFilter(limit)

	before := busTrip(100, "L1", 15, 45)
	at := busTrip(100, "L2", 25, 55) // departs 20 after walking 5 min to the stop
	after := busTrip(100, "L3", 30, 60)

	out := f.Apply([]*trip.Itinerary{before, at, after})

	require.Len(t, out, 2)
	assert.Same(t, before, out[0])
	assert.Same(t, at, out[1])
}

func TestLatestDepartureFilter_ExactLimitKept(t *testing.T) {
	limit := t0.Add(10 * time.Minute)
	f := NewLatestDepartureFilter(limit)

	// Departure exactly at the limit is not "strictly after".
	exact := itin(100, busLeg("L1", "A", "B", 10, 40, 8000))

	out := f.Apply([]*trip.Itinerary{exact})

	assert.Len(t, out, 1)
}

package filter

import (
	"time"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// t0 is the base departure time used by all test itineraries.
var t0 = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

// leg creates a leg departing at t0+startMin, arriving at t0+endMin.
func leg(mode trip.Mode, route, from, to string, startMin, endMin int, distance float64) *trip.Leg {
	return &trip.Leg{
		Mode:      mode,
		Route:     route,
		From:      trip.Place{Name: from},
		To:        trip.Place{Name: to},
		StartTime: t0.Add(time.Duration(startMin) * time.Minute),
		EndTime:   t0.Add(time.Duration(endMin) * time.Minute),
		Distance:  distance,
	}
}

// walkLeg creates a street leg.
func walkLeg(from, to string, startMin, endMin int, distance float64) *trip.Leg {
	return leg(trip.ModeWalk, "", from, to, startMin, endMin, distance)
}

// busLeg creates a transit leg.
func busLeg(route, from, to string, startMin, endMin int, distance float64) *trip.Leg {
	return leg(trip.ModeBus, route, from, to, startMin, endMin, distance)
}

// itin creates an itinerary with the given cost and legs.
func itin(cost int, legs ...*trip.Leg) *trip.Itinerary {
	return &trip.Itinerary{Legs: legs, GeneralizedCost: cost}
}

// walkOnly creates a street-only itinerary departing at t0, arriving
// t0+durMin.
func walkOnly(cost, durMin int) *trip.Itinerary {
	return itin(cost, walkLeg("A", "B", 0, durMin, 2000))
}

// busTrip creates a single-leg transit itinerary on the given route.
func busTrip(cost int, route string, startMin, endMin int) *trip.Itinerary {
	return itin(cost,
		walkLeg("A", "Stop1", startMin-5, startMin, 300),
		busLeg(route, "Stop1", "Stop2", startMin, endMin, 8000),
		walkLeg("Stop2", "B", endMin, endMin+5, 300),
	)
}

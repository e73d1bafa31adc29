package filter

import (
	"github.com/hupe1980/tripfilter/internal/trip"
)

// StreetDominanceFilter removes transit itineraries whose generalized
// cost exceeds the cheapest street-only (walk, bicycle, car) itinerary.
// A no-op when no street-only itinerary exists in the input.
type StreetDominanceFilter struct{}

// NewStreetDominanceFilter creates the street-dominance stage.
func NewStreetDominanceFilter() *StreetDominanceFilter {
	return &StreetDominanceFilter{}
}

// Name implements Filter.
func (f *StreetDominanceFilter) Name() string {
	return "transit-vs-street-filter"
}

// Apply removes dominated transit itineraries.
func (f *StreetDominanceFilter) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	bestStreetCost, ok := bestStreetOnlyCost(itineraries)
	if !ok {
		return itineraries
	}

	result := make([]*trip.Itinerary, 0, len(itineraries))

	for _, it := range itineraries {
		if it.HasTransit() && it.GeneralizedCost > bestStreetCost {
			continue
		}

		result = append(result, it)
	}

	return result
}

// bestStreetOnlyCost returns the lowest generalized cost among
// street-only itineraries, and whether such a baseline exists.
func bestStreetOnlyCost(itineraries []*trip.Itinerary) (int, bool) {
	best := 0
	found := false

	for _, it := range itineraries {
		if !it.IsStreetOnly() {
			continue
		}

		if !found || it.GeneralizedCost < best {
			best = it.GeneralizedCost
			found = true
		}
	}

	return best, found
}

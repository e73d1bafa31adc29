package filter

import (
	"sort"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// SortFilter establishes the final presentation order. It removes
// nothing; it runs after all content-reducing stages and before the
// max-limit cap, so the cap drops the worst-ranked itineraries rather
// than arbitrary ones.
type SortFilter struct {
	arriveBy bool
}

// NewSortFilter creates the sort stage for the given search direction.
func NewSortFilter(arriveBy bool) *SortFilter {
	return &SortFilter{arriveBy: arriveBy}
}

// Name implements Filter.
func (f *SortFilter) Name() string {
	return "sort-filter"
}

// Apply returns the itineraries in presentation order. The input slice is
// not mutated.
func (f *SortFilter) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	result := make([]*trip.Itinerary, len(itineraries))
	copy(result, itineraries)

	sort.SliceStable(result, func(i, j int) bool {
		return compareItineraries(result[i], result[j], f.arriveBy)
	})

	return result
}

// compareItineraries is the direction-dependent comparator. Depart-after
// searches rank early arrivals first; arrive-by searches rank late
// departures first. Ties are broken by generalized cost, then by number
// of transfers.
func compareItineraries(a, b *trip.Itinerary, arriveBy bool) bool {
	if arriveBy {
		if !a.StartTime().Equal(b.StartTime()) {
			return a.StartTime().After(b.StartTime())
		}
	} else {
		if !a.EndTime().Equal(b.EndTime()) {
			return a.EndTime().Before(b.EndTime())
		}
	}

	if a.GeneralizedCost != b.GeneralizedCost {
		return a.GeneralizedCost < b.GeneralizedCost
	}

	return a.Transfers() < b.Transfers()
}

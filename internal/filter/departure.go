package filter

import (
	"time"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// LatestDepartureFilter removes itineraries departing strictly after a
// configured instant. This is an absolute constraint: it does not respect
// the approximate minimum-count guideline.
type LatestDepartureFilter struct {
	limit time.Time
}

// NewLatestDepartureFilter creates the departure-cutoff stage.
func NewLatestDepartureFilter(limit time.Time) *LatestDepartureFilter {
	return &LatestDepartureFilter{limit: limit}
}

// Name implements Filter.
func (f *LatestDepartureFilter) Name() string {
	return "latest-departure-time-filter"
}

// Apply removes itineraries departing after the limit.
func (f *LatestDepartureFilter) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	result := make([]*trip.Itinerary, 0, len(itineraries))

	for _, it := range itineraries {
		if it.StartTime().After(f.limit) {
			continue
		}

		result = append(result, it)
	}

	return result
}

package filter

import (
	"github.com/hupe1980/tripfilter/internal/trip"
)

// MaxLimitFilter keeps only the first maxLimit itineraries in current
// order. It is the very last content stage, so it operates on the final
// ranking established by the sort stage.
type MaxLimitFilter struct {
	maxLimit   int
	subscriber func(*trip.Itinerary)
}

// NewMaxLimitFilter creates the cap stage. When subscriber is non-nil it
// is invoked with exactly the first itinerary dropped, at most once per
// execution; further drops are silent.
func NewMaxLimitFilter(maxLimit int, subscriber func(*trip.Itinerary)) *MaxLimitFilter {
	return &MaxLimitFilter{maxLimit: maxLimit, subscriber: subscriber}
}

// Name implements Filter.
func (f *MaxLimitFilter) Name() string {
	return "number-of-itineraries-filter"
}

// Apply truncates the sequence to the configured maximum.
func (f *MaxLimitFilter) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	if len(itineraries) <= f.maxLimit {
		return itineraries
	}

	if f.subscriber != nil {
		f.subscriber(itineraries[f.maxLimit])
	}

	return itineraries[:f.maxLimit]
}

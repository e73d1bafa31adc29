package filter

import (
	"strings"
	"time"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// TimetableVariationFilter reduces timetable noise: itineraries that only
// differ in a short first or last transit leg — walking to another stop,
// or a brief feeder ride — are grouped by their main transit legs, and
// only the lowest-cost member of each group is kept.
type TimetableVariationFilter struct {
	slack time.Duration
}

// NewTimetableVariationFilter creates the variation-reducer stage. A
// first or last transit leg shorter than slack is not part of the group
// key.
func NewTimetableVariationFilter(slack time.Duration) *TimetableVariationFilter {
	return &TimetableVariationFilter{slack: slack}
}

// Name implements Filter.
func (f *TimetableVariationFilter) Name() string {
	return "timetable-variation-filter"
}

// Apply keeps the lowest-cost itinerary of each main-leg group, in input
// order. Itineraries without transit legs are never grouped and always
// pass through.
func (f *TimetableVariationFilter) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	best := make(map[string]*trip.Itinerary, len(itineraries))

	for _, it := range itineraries {
		key, ok := f.mainLegsKey(it)
		if !ok {
			continue
		}

		if cur, seen := best[key]; !seen || it.GeneralizedCost < cur.GeneralizedCost {
			best[key] = it
		}
	}

	result := make([]*trip.Itinerary, 0, len(itineraries))

	for _, it := range itineraries {
		key, ok := f.mainLegsKey(it)
		if !ok || best[key] == it {
			result = append(result, it)
		}
	}

	return result
}

// mainLegsKey builds the group key from the itinerary's transit legs,
// skipping a first and/or last leg shorter than the slack. The second
// return is false for itineraries without transit legs, which have no
// group key.
func (f *TimetableVariationFilter) mainLegsKey(it *trip.Itinerary) (string, bool) {
	legs := it.TransitLegs()

	if len(legs) > 1 && legs[0].Duration() < f.slack {
		legs = legs[1:]
	}

	if len(legs) > 1 && legs[len(legs)-1].Duration() < f.slack {
		legs = legs[:len(legs)-1]
	}

	if len(legs) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(legs))
	for _, l := range legs {
		keys = append(keys, l.Key())
	}

	return strings.Join(keys, "+"), true
}

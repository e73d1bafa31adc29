package filter

import (
	"sort"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// GroupByDistanceFilter groups itineraries that share their significant
// legs — the legs that together account for at least fraction p of the
// trip distance — and keeps a small number of the best itineraries per
// group. It both deduplicates near-identical options and shapes the
// result set, so it always runs.
type GroupByDistanceFilter struct {
	p        float64
	minLimit int
	arriveBy bool
}

// NewGroupByDistanceFilter creates the group-by stage. p is the fraction
// of total distance shared legs must account for, in [0.0, 1.0]. The
// minLimit guideline decides how many members each group retains.
func NewGroupByDistanceFilter(p float64, minLimit int, arriveBy bool) *GroupByDistanceFilter {
	return &GroupByDistanceFilter{p: p, minLimit: minLimit, arriveBy: arriveBy}
}

// Name implements Filter.
func (f *GroupByDistanceFilter) Name() string {
	return "group-by-distance-filter"
}

// Apply groups the itineraries and keeps ceil(minLimit/groups) members
// per group, preferring low generalized cost. Output preserves input
// order.
func (f *GroupByDistanceFilter) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	if len(itineraries) == 0 {
		return itineraries
	}

	groups := f.groupBySignificantLegs(itineraries)

	keepPerGroup := ceilDiv(f.minLimit, len(groups))
	if keepPerGroup < 1 {
		keepPerGroup = 1
	}

	keep := make(map[*trip.Itinerary]bool, len(itineraries))

	for _, g := range groups {
		for _, it := range f.bestOf(g.members, keepPerGroup) {
			keep[it] = true
		}
	}

	result := make([]*trip.Itinerary, 0, len(keep))

	for _, it := range itineraries {
		if keep[it] {
			result = append(result, it)
		}
	}

	return result
}

// group collects itineraries sharing significant legs.
type group struct {
	legKeys map[string]bool
	members []*trip.Itinerary
}

// groupBySignificantLegs assigns each itinerary to the first group whose
// significant-leg set overlaps its own, creating a new group when none
// matches. Merging is transitive through the accumulated leg-key set.
func (f *GroupByDistanceFilter) groupBySignificantLegs(itineraries []*trip.Itinerary) []*group {
	var groups []*group

	for _, it := range itineraries {
		keys := f.significantLegKeys(it)

		var target *group

		for _, g := range groups {
			if overlaps(g.legKeys, keys) {
				target = g
				break
			}
		}

		if target == nil {
			target = &group{legKeys: make(map[string]bool, len(keys))}
			groups = append(groups, target)
		}

		for k := range keys {
			target.legKeys[k] = true
		}

		target.members = append(target.members, it)
	}

	return groups
}

// significantLegKeys returns the corridor keys of the longest legs that
// together cover at least fraction p of the itinerary's total distance.
// Corridor keys are time-independent, so the same ride taken at different
// times lands in the same group.
func (f *GroupByDistanceFilter) significantLegKeys(it *trip.Itinerary) map[string]bool {
	legs := make([]*trip.Leg, len(it.Legs))
	copy(legs, it.Legs)

	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].Distance > legs[j].Distance
	})

	threshold := f.p * it.TotalDistance()
	keys := make(map[string]bool)

	var covered float64

	for _, l := range legs {
		keys[l.CorridorKey()] = true
		covered += l.Distance

		if covered >= threshold {
			break
		}
	}

	return keys
}

// bestOf returns up to n members of the group, preferring low generalized
// cost. Ties fall back to the sort-order comparator for the search
// direction.
func (f *GroupByDistanceFilter) bestOf(members []*trip.Itinerary, n int) []*trip.Itinerary {
	if len(members) <= n {
		return members
	}

	ranked := make([]*trip.Itinerary, len(members))
	copy(ranked, members)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].GeneralizedCost != ranked[j].GeneralizedCost {
			return ranked[i].GeneralizedCost < ranked[j].GeneralizedCost
		}

		return compareItineraries(ranked[i], ranked[j], f.arriveBy)
	})

	return ranked[:n]
}

func overlaps(a, b map[string]bool) bool {
	for k := range b {
		if a[k] {
			return true
		}
	}

	return false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

package filter

import (
	"time"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// Defaults for the chain configuration.
const (
	DefaultGroupByP = 0.68
	DefaultMinLimit = 3
	DefaultMaxLimit = 20
)

// ChainBuilder translates configuration into an ordered, conditional list
// of chain stages. A builder is single-use: configure it via the setters,
// then call Build once. The produced chain is a deterministic function of
// the configuration.
type ChainBuilder struct {
	arriveBy                 bool
	groupByP                 float64
	minLimit                 int
	maxLimit                 int
	latestDepartureTime      *time.Time
	removeCostlierThanStreet bool
	transitSlack             time.Duration
	transitSlackSet          bool
	debug                    bool
	maxLimitReached          func(*trip.Itinerary)
}

// NewChainBuilder creates a builder for the given search direction.
// The arrive-by flag is fixed for the life of the builder because it
// drives the sort order and grouping semantics of the produced chain.
func NewChainBuilder(arriveBy bool) *ChainBuilder {
	return &ChainBuilder{
		arriveBy:                 arriveBy,
		groupByP:                 DefaultGroupByP,
		minLimit:                 DefaultMinLimit,
		maxLimit:                 DefaultMaxLimit,
		removeCostlierThanStreet: true,
	}
}

// WithLatestDepartureTime sets an absolute limit on itinerary departure
// time. Itineraries departing after this instant are removed outright;
// the minimum-count guideline does not apply to this filter.
func (b *ChainBuilder) WithLatestDepartureTime(t time.Time) *ChainBuilder {
	b.latestDepartureTime = &t
	return b
}

// WithApproximateMinLimit sets a guideline for the minimum number of
// itineraries to return. Filters that respect it stop reducing when the
// limit is reached; it is approximate, not a hard floor. For example the
// group-by filter keeps 2 samples per group when there are 2 groups and
// the min limit is 3, returning up to 4 itineraries.
func (b *ChainBuilder) WithApproximateMinLimit(minLimit int) *ChainBuilder {
	b.minLimit = minLimit
	return b
}

// WithMaxLimit sets the maximum number of itineraries returned. Applied
// at the very end of the chain, after the final sort.
func (b *ChainBuilder) WithMaxLimit(maxLimit int) *ChainBuilder {
	b.maxLimit = maxLimit
	return b
}

// WithGroupByP sets the fraction of total distance a set of legs must
// account for before itineraries sharing them are grouped. Must be a
// number between 0.0 and 1.0; interpretation is the group-by filter's
// concern.
func (b *ChainBuilder) WithGroupByP(p float64) *ChainBuilder {
	b.groupByP = p
	return b
}

// WithMaxLimitReachedSubscriber registers a callback invoked with the
// first itinerary removed by the max-limit stage, at most once per chain
// execution. Itineraries removed by earlier stages are not reported.
func (b *ChainBuilder) WithMaxLimitReachedSubscriber(fn func(*trip.Itinerary)) *ChainBuilder {
	b.maxLimitReached = fn
	return b
}

// WithRemoveTransitCostlierThanStreet toggles the street-dominance stage.
// The direct street search (walk, bicycle, car) does not prune the
// transit search, so the raw set can contain transit itineraries that are
// marginally better on duration but worse on generalized cost than simply
// staying on the street. Enabled by default; the stage only has an effect
// when a street-only itinerary exists.
func (b *ChainBuilder) WithRemoveTransitCostlierThanStreet(enable bool) *ChainBuilder {
	b.removeCostlierThanStreet = enable
	return b
}

// WithTransitSlack enables the timetable-variation stage. Itineraries are
// grouped by their main transit legs, skipping a first or last leg
// shorter than the given slack, and only the lowest-cost member of each
// group is kept. The stage is only included for a strictly positive
// slack; leaving it unset disables the stage entirely.
func (b *ChainBuilder) WithTransitSlack(slack time.Duration) *ChainBuilder {
	b.transitSlack = slack
	b.transitSlackSet = true
	return b
}

// WithDebug makes the built chain non-destructive: no stage deletes an
// itinerary, removals are replaced by system-notice tagging.
func (b *ChainBuilder) WithDebug() *ChainBuilder {
	b.debug = true
	return b
}

// Build assembles the chain. Stage inclusion is conditional but the
// relative order is fixed policy: dominance and variation reduction work
// on the raw candidates, grouping collapses near-duplicates before
// anything is counted, the departure cutoff is an absolute constraint
// applied after shaping, the sort establishes the final ranking, and the
// max-limit cap runs last so it removes the worst-ranked itineraries.
func (b *ChainBuilder) Build() *Chain {
	stages := []struct {
		include func() bool
		make    func() Filter
	}{
		{
			include: func() bool { return b.removeCostlierThanStreet },
			make:    func() Filter { return NewStreetDominanceFilter() },
		},
		{
			include: func() bool { return b.transitSlackSet && b.transitSlack > 0 },
			make:    func() Filter { return NewTimetableVariationFilter(b.transitSlack) },
		},
		{
			include: func() bool { return true },
			make:    func() Filter { return NewGroupByDistanceFilter(b.groupByP, b.minLimit, b.arriveBy) },
		},
		{
			include: func() bool { return b.latestDepartureTime != nil },
			make:    func() Filter { return NewLatestDepartureFilter(*b.latestDepartureTime) },
		},
		{
			include: func() bool { return true },
			make:    func() Filter { return NewSortFilter(b.arriveBy) },
		},
		{
			// An inconsistent max/min configuration silently omits the
			// cap instead of failing: fail open, not closed.
			include: func() bool { return b.maxLimit >= b.minLimit },
			make:    func() Filter { return NewMaxLimitFilter(b.maxLimit, b.maxLimitReached) },
		},
	}

	var filters []Filter

	for _, s := range stages {
		if s.include() {
			filters = append(filters, s.make())
		}
	}

	if b.debug {
		filters = wrapAllForDebug(filters)
	}

	return NewChain(filters...)
}

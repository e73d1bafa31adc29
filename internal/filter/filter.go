package filter

import (
	"github.com/hupe1980/tripfilter/internal/trip"
)

// Filter is the interface for all chain stages.
// Filters are pure and stateless — they receive an ordered itinerary
// sequence and return a reduced, annotated, or reordered sequence without
// modifying shared state. A filter must not mutate the input slice.
type Filter interface {
	// Name returns the stable stage name, used for system notices and
	// diagnostics.
	Name() string

	// Apply runs the stage on the given itineraries and returns the
	// resulting sequence.
	Apply(itineraries []*trip.Itinerary) []*trip.Itinerary
}

// Chain applies multiple filters sequentially, passing each stage's
// output as input to the next. The stage list is fixed at construction;
// a built chain holds no per-call state and is safe to reuse for
// repeated, non-overlapping invocations.
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from the given filters. A chain with
// zero stages is a legal identity transform.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Apply runs all stages strictly in order and returns the final sequence.
func (c *Chain) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	current := itineraries

	for _, f := range c.filters {
		current = f.Apply(current)
	}

	return current
}

// Filters returns the ordered stage list.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// StageNames returns the names of all stages in execution order.
func (c *Chain) StageNames() []string {
	names := make([]string, 0, len(c.filters))
	for _, f := range c.filters {
		names = append(names, f.Name())
	}

	return names
}

package filter

import (
	"fmt"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// DebugWrapper decorates a filter so that itineraries the wrapped stage
// would remove are kept and tagged with a system notice naming the stage,
// instead of being dropped. Wrapped stages still satisfy the Filter
// contract and compose identically to unwrapped ones.
type DebugWrapper struct {
	wrapped Filter
}

// NewDebugWrapper wraps the given filter with non-destructive behaviour.
func NewDebugWrapper(f Filter) *DebugWrapper {
	return &DebugWrapper{wrapped: f}
}

// Name returns the wrapped stage's name.
func (w *DebugWrapper) Name() string {
	return w.wrapped.Name()
}

// Apply runs the wrapped stage, then reinstates every itinerary the stage
// removed at its original relative position, tagged with a notice.
// Itineraries the stage keeps pass through unchanged; when the stage
// removed nothing its output (including any reordering) is returned as-is.
func (w *DebugWrapper) Apply(itineraries []*trip.Itinerary) []*trip.Itinerary {
	result := w.wrapped.Apply(itineraries)

	if len(result) == len(itineraries) {
		return result
	}

	kept := make(map[*trip.Itinerary]bool, len(result))
	for _, it := range result {
		kept[it] = true
	}

	// Walk the input so removed itineraries stay at their original
	// relative position. Reducing stages preserve input order, so kept
	// itineraries come out in the same order either way.
	out := make([]*trip.Itinerary, 0, len(itineraries))

	for _, it := range itineraries {
		if !kept[it] {
			it.AddSystemNotice(w.wrapped.Name(),
				fmt.Sprintf("deleted by the %s filter", w.wrapped.Name()))
		}

		out = append(out, it)
	}

	return out
}

// wrapAllForDebug wraps every filter in the list, preserving order.
func wrapAllForDebug(filters []Filter) []Filter {
	wrapped := make([]Filter, 0, len(filters))
	for _, f := range filters {
		wrapped = append(wrapped, NewDebugWrapper(f))
	}

	return wrapped
}

package report

import (
	"fmt"
	"io"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// Removal summarizes one itinerary a debug-mode chain run tagged for
// removal, and the stage that tagged it.
type Removal struct {
	// Index is the itinerary's position in the debug-run output.
	Index int

	// Stage is the name of the filter that tagged the itinerary. The
	// first tagging stage is reported when several apply.
	Stage string

	// Itinerary is the tagged itinerary's one-line description.
	Itinerary string
}

// CollectRemovals extracts the removals recorded in a debug-run output.
func CollectRemovals(itineraries []*trip.Itinerary) []Removal {
	var removals []Removal

	for i, it := range itineraries {
		if len(it.SystemNotices) == 0 {
			continue
		}

		removals = append(removals, Removal{
			Index:     i,
			Stage:     it.SystemNotices[0].Tag,
			Itinerary: it.String(),
		})
	}

	return removals
}

// WriteRemovals writes a per-stage removal summary to w.
func WriteRemovals(w io.Writer, removals []Removal) {
	if len(removals) == 0 {
		_, _ = fmt.Fprintln(w, "No itineraries removed.")
		return
	}

	for _, r := range removals {
		_, _ = fmt.Fprintf(w, "#%d %s — removed by %s\n", r.Index+1, r.Itinerary, r.Stage)
	}
}

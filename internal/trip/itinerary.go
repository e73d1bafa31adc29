package trip

import (
	"fmt"
	"strings"
	"time"
)

// Place is a named location with WGS84 coordinates.
type Place struct {
	// Name is a human-readable stop or place name.
	Name string `json:"name"`

	// Lat is the latitude in degrees.
	Lat float64 `json:"lat"`

	// Lon is the longitude in degrees.
	Lon float64 `json:"lon"`
}

// Leg is one uninterrupted segment of an itinerary in a single mode.
type Leg struct {
	// Mode is the travel mode of this leg.
	Mode Mode `json:"mode" validate:"required"`

	// From is the departure place.
	From Place `json:"from"`

	// To is the arrival place.
	To Place `json:"to"`

	// StartTime is the departure time of the leg.
	StartTime time.Time `json:"startTime" validate:"required"`

	// EndTime is the arrival time of the leg.
	EndTime time.Time `json:"endTime" validate:"required,gtefield=StartTime"`

	// Distance is the leg length in meters. When zero it may be derived
	// from the from/to coordinates by the parser.
	Distance float64 `json:"distance,omitempty" validate:"gte=0"`

	// Route identifies the transit line serving the leg, empty for
	// street legs.
	Route string `json:"route,omitempty"`
}

// Duration returns the travel time of the leg.
func (l *Leg) Duration() time.Duration {
	return l.EndTime.Sub(l.StartTime)
}

// Key returns a stable identity for the leg. Two legs with the same key
// are the same ride: same mode, route, stops, and departure time.
func (l *Leg) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		l.Mode, l.Route, l.From.Name, l.To.Name, l.StartTime.UTC().Format(time.RFC3339))
}

// CorridorKey returns a time-independent identity for the leg: same mode,
// route, and stops, regardless of departure time. Legs sharing a corridor
// key represent the same travel corridor served at different times.
func (l *Leg) CorridorKey() string {
	return fmt.Sprintf("%s|%s|%s|%s", l.Mode, l.Route, l.From.Name, l.To.Name)
}

// SystemNotice is a non-destructive annotation recording a filter-chain
// decision on an itinerary.
type SystemNotice struct {
	// Tag identifies the filter that produced the notice.
	Tag string `json:"tag"`

	// Text is a human-readable explanation.
	Text string `json:"text"`
}

// Itinerary is one complete computed trip option.
type Itinerary struct {
	// Legs are the ordered segments of the trip. Never empty.
	Legs []*Leg `json:"legs" validate:"required,min=1,dive"`

	// GeneralizedCost is a single scalar combining time, transfers, and
	// other penalties. Lower is better.
	GeneralizedCost int `json:"generalizedCost" validate:"gte=0"`

	// SystemNotices holds filter-chain annotations. Append-only.
	SystemNotices []SystemNotice `json:"systemNotices,omitempty"`
}

// StartTime returns the departure time of the first leg.
func (it *Itinerary) StartTime() time.Time {
	return it.Legs[0].StartTime
}

// EndTime returns the arrival time of the last leg.
func (it *Itinerary) EndTime() time.Time {
	return it.Legs[len(it.Legs)-1].EndTime
}

// Duration returns the total travel time from first departure to last
// arrival.
func (it *Itinerary) Duration() time.Duration {
	return it.EndTime().Sub(it.StartTime())
}

// TotalDistance returns the sum of all leg distances in meters.
func (it *Itinerary) TotalDistance() float64 {
	var total float64
	for _, l := range it.Legs {
		total += l.Distance
	}

	return total
}

// HasTransit reports whether any leg uses a transit mode.
func (it *Itinerary) HasTransit() bool {
	for _, l := range it.Legs {
		if l.Mode.IsTransit() {
			return true
		}
	}

	return false
}

// IsStreetOnly reports whether the itinerary uses street modes
// (walk, bicycle, car) for the whole trip.
func (it *Itinerary) IsStreetOnly() bool {
	return !it.HasTransit()
}

// Transfers returns the number of changes between transit legs.
func (it *Itinerary) Transfers() int {
	n := 0
	for _, l := range it.Legs {
		if l.Mode.IsTransit() {
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return n - 1
}

// TransitLegs returns the legs using a transit mode, in trip order.
func (it *Itinerary) TransitLegs() []*Leg {
	var legs []*Leg
	for _, l := range it.Legs {
		if l.Mode.IsTransit() {
			legs = append(legs, l)
		}
	}

	return legs
}

// AddSystemNotice appends a notice. Notices are never removed.
func (it *Itinerary) AddSystemNotice(tag, text string) {
	it.SystemNotices = append(it.SystemNotices, SystemNotice{Tag: tag, Text: text})
}

// HasSystemNotice reports whether a notice with the given tag exists.
func (it *Itinerary) HasSystemNotice(tag string) bool {
	for _, n := range it.SystemNotices {
		if n.Tag == tag {
			return true
		}
	}

	return false
}

// String returns a compact single-line description, useful in logs and
// test failure messages.
func (it *Itinerary) String() string {
	modes := make([]string, 0, len(it.Legs))
	for _, l := range it.Legs {
		modes = append(modes, string(l.Mode))
	}

	return fmt.Sprintf("%s → %s [%s] cost=%d",
		it.StartTime().Format("15:04"), it.EndTime().Format("15:04"),
		strings.Join(modes, ","), it.GeneralizedCost)
}

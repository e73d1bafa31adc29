// Package trip defines the itinerary domain model the filter chain
// operates on: itineraries, legs, travel modes, and system notices.
//
// Itineraries are the chain's atomic unit — filters reorder, drop, or tag
// whole itineraries, never individual legs. System notices are append-only
// annotations used to record filter decisions without mutating trip data.
package trip

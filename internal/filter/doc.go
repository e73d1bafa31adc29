// Package filter implements the itinerary post-processing chain: an
// ordered sequence of stages that reduce, annotate, and sort a candidate
// itinerary set before it is surfaced to the caller.
//
// The package is built around the [Filter] interface, the [Chain] type,
// and the [ChainBuilder], which translates configuration into a fixed,
// deterministic stage order. The [DebugWrapper] decorator makes any
// stage's removals observable instead of destructive.
package filter

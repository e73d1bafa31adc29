// Package watch provides file-watching capabilities for tripfilter's
// live-reload workflow. It monitors the candidate itinerary file (and
// optional profile or config files) for changes, debounces rapid
// events, and reruns the filter chain automatically.
package watch

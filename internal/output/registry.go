package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// Format names accepted by the CLI.
const (
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Serializer renders a result into bytes for one output format.
type Serializer func(res *Result) ([]byte, error)

// Registry maps format names to serializers, enabling pluggable output
// formats.
type Registry struct {
	mu          sync.RWMutex
	serializers map[string]Serializer
}

// NewRegistry creates an empty serializer registry.
func NewRegistry() *Registry {
	return &Registry{
		serializers: make(map[string]Serializer),
	}
}

// Register adds a serializer under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.serializers[name] = s
}

// Serializer returns the serializer for the given format, or an error if
// not found.
func (r *Registry) Serializer(name string) (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.serializers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.AvailableFormats())
	}

	return s, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.serializers))
	for name := range r.serializers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	formats := r.Formats()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// output formats: yaml, json, table.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(FormatYAML, SerializeYAML)
	r.Register(FormatJSON, SerializeJSON)
	r.Register(FormatTable, SerializeTable)

	return r
}

// NewResult assembles a Result from a chain run.
func NewResult(formatVersion string, arriveBy bool, stages []string, itineraries []*trip.Itinerary) *Result {
	return &Result{
		FormatVersion: formatVersion,
		ArriveBy:      arriveBy,
		Stages:        stages,
		Itineraries:   itineraries,
	}
}

// Package output serializes filtered itinerary sets and writes them to
// their destination.
//
// The package is organized around three concerns:
//
//   - Serialization (serializer.go): YAML, JSON, and human-readable table
//     rendering of a filter run's result.
//
//   - Writers (writer.go): Pluggable output destinations via the [Writer]
//     interface, with [StdoutWriter] and [FileWriter] implementations.
//
//   - Registry (registry.go): Format-name to writer-factory mapping used
//     by the CLI's --output flag.
package output

// Package parser reads candidate itinerary documents from YAML or JSON,
// validates them, and prepares them for the filter chain.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/tripfilter/internal/spatial"
	"github.com/hupe1980/tripfilter/internal/trip"
)

// FormatVersionConstraint is the semver range of document format
// versions this parser accepts.
const FormatVersionConstraint = "^1.0"

// Document is a serialized candidate itinerary set, as produced by an
// upstream trip-planning search.
type Document struct {
	// FormatVersion is the document schema version. Must satisfy
	// FormatVersionConstraint.
	FormatVersion string `json:"formatVersion" validate:"required"`

	// ArriveBy is the direction of the search that produced the set.
	ArriveBy bool `json:"arriveBy,omitempty"`

	// Itineraries are the raw candidates, in search order.
	Itineraries []*trip.Itinerary `json:"itineraries" validate:"required,min=1,dive"`
}

// Parse decodes one or more YAML documents (or a single JSON document)
// into a combined Document. Multi-document streams must agree on format
// version and search direction; their itineraries are concatenated in
// stream order.
func Parse(data []byte) (*Document, error) {
	raw, err := splitDocuments(data)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, errors.New("no itinerary documents found")
	}

	var combined *Document

	for i, docBytes := range raw {
		var doc Document
		if err := sigsyaml.UnmarshalStrict(docBytes, &doc); err != nil {
			return nil, fmt.Errorf("parsing document %d: %w", i+1, err)
		}

		if combined == nil {
			d := doc
			combined = &d

			continue
		}

		if doc.FormatVersion != combined.FormatVersion {
			return nil, fmt.Errorf("document %d: format version %q differs from %q",
				i+1, doc.FormatVersion, combined.FormatVersion)
		}

		if doc.ArriveBy != combined.ArriveBy {
			return nil, fmt.Errorf("document %d: arriveBy differs from earlier documents", i+1)
		}

		combined.Itineraries = append(combined.Itineraries, doc.Itineraries...)
	}

	if err := validate(combined); err != nil {
		return nil, err
	}

	if err := checkFormatVersion(combined.FormatVersion); err != nil {
		return nil, err
	}

	backfillDistances(combined.Itineraries)

	return combined, nil
}

// ParseFile reads and parses the given itinerary file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading itinerary file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return doc, nil
}

// splitDocuments splits a YAML stream into its individual documents.
// JSON input is a single-document YAML stream, so it needs no special
// handling.
func splitDocuments(data []byte) ([][]byte, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs [][]byte

	for {
		var node yaml.Node

		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("decoding YAML stream: %w", err)
		}

		out, err := yaml.Marshal(&node)
		if err != nil {
			return nil, fmt.Errorf("re-encoding YAML document: %w", err)
		}

		docs = append(docs, out)
	}

	return docs, nil
}

// checkFormatVersion verifies the document version against the supported
// range using semver constraint matching.
func checkFormatVersion(version string) error {
	c, err := semver.NewConstraint(FormatVersionConstraint)
	if err != nil {
		return fmt.Errorf("parsing format version constraint: %w", err)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid format version %q: %w", version, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("unsupported format version %q (supported: %s)",
			version, FormatVersionConstraint)
	}

	return nil
}

// validate runs struct validation over the document and its itineraries.
func validate(doc *Document) error {
	v := validator.New()

	if err := v.Struct(doc); err != nil {
		return fmt.Errorf("validating itinerary document: %w", err)
	}

	return nil
}

// backfillDistances derives missing leg distances from coordinates.
// A leg with zero distance but located endpoints gets the great-circle
// distance between them.
func backfillDistances(itineraries []*trip.Itinerary) {
	for _, it := range itineraries {
		for _, l := range it.Legs {
			if l.Distance > 0 {
				continue
			}

			if !located(l.From) || !located(l.To) {
				continue
			}

			l.Distance = spatial.Distance(l.From.Lat, l.From.Lon, l.To.Lat, l.To.Lon)
		}
	}
}

// located reports whether a place carries usable coordinates.
func located(p trip.Place) bool {
	return p.Lat != 0 || p.Lon != 0
}

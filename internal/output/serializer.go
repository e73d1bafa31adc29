package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/tripfilter/internal/trip"
)

// Result is the serializable outcome of one filter-chain run.
type Result struct {
	// FormatVersion matches the input document schema version.
	FormatVersion string `json:"formatVersion"`

	// ArriveBy is the search direction the chain was built for.
	ArriveBy bool `json:"arriveBy"`

	// Stages are the chain stage names in execution order.
	Stages []string `json:"stages"`

	// Itineraries are the surfaced itineraries, in presentation order.
	Itineraries []*trip.Itinerary `json:"itineraries"`
}

// SerializeYAML renders the result as YAML with a trailing newline.
func SerializeYAML(res *Result) ([]byte, error) {
	data, err := sigsyaml.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return ensureTrailingNewline(data), nil
}

// SerializeJSON renders the result as indented JSON with a trailing
// newline.
func SerializeJSON(res *Result) ([]byte, error) {
	yamlBytes, err := sigsyaml.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("serializing intermediate YAML: %w", err)
	}

	jsonBytes, err := sigsyaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}

	var buf bytes.Buffer
	if err := prettyPrintJSON(&buf, jsonBytes, "  "); err != nil {
		return nil, fmt.Errorf("formatting JSON: %w", err)
	}

	return ensureTrailingNewline(buf.Bytes()), nil
}

// SerializeTable renders the result as a human-readable table: one line
// per itinerary with departure, arrival, duration, modes, cost, and any
// system notice tags.
func SerializeTable(res *Result) ([]byte, error) {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "#\tDEPART\tARRIVE\tDURATION\tMODES\tCOST\tNOTICES")

	for i, it := range res.Itineraries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			i+1,
			it.StartTime().Format(time.TimeOnly),
			it.EndTime().Format(time.TimeOnly),
			it.Duration().Round(time.Second),
			modeSummary(it),
			it.GeneralizedCost,
			noticeSummary(it),
		)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("formatting table: %w", err)
	}

	return buf.Bytes(), nil
}

// modeSummary joins the itinerary's leg modes, collapsing consecutive
// repeats.
func modeSummary(it *trip.Itinerary) string {
	var modes []string

	for _, l := range it.Legs {
		m := string(l.Mode)
		if len(modes) == 0 || modes[len(modes)-1] != m {
			modes = append(modes, m)
		}
	}

	return strings.Join(modes, "→")
}

// noticeSummary joins the itinerary's system notice tags, "-" when none.
func noticeSummary(it *trip.Itinerary) string {
	if len(it.SystemNotices) == 0 {
		return "-"
	}

	tags := make([]string, 0, len(it.SystemNotices))
	for _, n := range it.SystemNotices {
		tags = append(tags, n.Tag)
	}

	return strings.Join(tags, ",")
}

// prettyPrintJSON indents raw JSON into buf.
func prettyPrintJSON(buf *bytes.Buffer, data []byte, indent string) error {
	return json.Indent(buf, data, "", indent)
}

func ensureTrailingNewline(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return data
}

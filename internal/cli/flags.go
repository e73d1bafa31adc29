package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tripfilter/internal/output"
)

// chainOptions collects the flag values that shape the filter chain.
type chainOptions struct {
	arriveBy        bool
	groupByP        float64
	minLimit        int
	maxLimit        int
	transitSlack    time.Duration
	latestDeparture string
	streetDominance bool
	debug           bool
	profile         string
}

// outputOptions collects the flag values that shape the output stage.
type outputOptions struct {
	format     string
	outputFile string
}

// registerChainFlags adds the standard chain configuration flags to a
// cobra command.
func registerChainFlags(cmd *cobra.Command, opts *chainOptions) {
	f := cmd.Flags()
	f.BoolVar(&opts.arriveBy, "arrive-by", false, "treat the input as an arrive-by search (overrides the document)")
	f.Float64Var(&opts.groupByP, "group-by-p", 0, "fraction of total distance for grouping by shared legs (0.50-0.95)")
	f.IntVar(&opts.minLimit, "min-limit", 0, "approximate minimum number of itineraries to keep")
	f.IntVar(&opts.maxLimit, "max-limit", 0, "maximum number of itineraries to return")
	f.DurationVar(&opts.transitSlack, "transit-slack", 0, "enable timetable-variation reduction with this slack (e.g. 90s)")
	f.StringVar(&opts.latestDeparture, "latest-departure", "", "remove itineraries departing after this RFC3339 instant")
	f.BoolVar(&opts.streetDominance, "street-dominance", true, "remove transit itineraries costlier than the best street-only one")
	f.BoolVar(&opts.debug, "debug", false, "tag removed itineraries instead of deleting them")
	f.StringVar(&opts.profile, "profile", "", "apply a named filter profile (built-in or from the config file)")
}

// registerOutputFlags adds the standard output flags to a cobra command.
func registerOutputFlags(cmd *cobra.Command, opts *outputOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.format, "format", output.FormatYAML, "output format: "+output.DefaultRegistry().AvailableFormats())
	f.StringVarP(&opts.outputFile, "output", "o", "", "output file path (default: stdout)")
}

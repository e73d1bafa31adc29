// Package tripfilter provides a public Go API for reducing raw
// trip-planner itinerary sets to a short, ranked result list.
//
// This package exposes the filter chain as a library, allowing
// programmatic use without the CLI. Input and output are serialized
// itinerary documents (YAML or JSON).
//
// Basic usage:
//
//	result, err := tripfilter.FilterFile(ctx, "itineraries.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(result.Output))
//
// With options:
//
//	result, err := tripfilter.FilterFile(ctx, "itineraries.yaml",
//	    tripfilter.WithMaxLimit(5),
//	    tripfilter.WithTransitSlack(90*time.Second),
//	    tripfilter.WithFormat(tripfilter.FormatJSON),
//	)
package tripfilter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/tripfilter/internal/config"
	"github.com/hupe1980/tripfilter/internal/filter"
	"github.com/hupe1980/tripfilter/internal/logging"
	"github.com/hupe1980/tripfilter/internal/output"
	"github.com/hupe1980/tripfilter/internal/trip"
	"github.com/hupe1980/tripfilter/internal/trip/parser"
)

// Output format names accepted by WithFormat.
const (
	FormatYAML  = output.FormatYAML
	FormatJSON  = output.FormatJSON
	FormatTable = output.FormatTable
)

// Option configures the filter chain.
// Use the With* functions to create Options.
type Option func(*options)

// options holds the internal configuration for one filter run.
type options struct {
	arriveBy        *bool
	groupByP        *float64
	minLimit        *int
	maxLimit        *int
	transitSlack    *time.Duration
	latestDeparture *time.Time
	streetDominance *bool
	maxLimitReached func(itinerary string)
	debug           bool
	profile         string
	profileData     []byte
	format          string
	logger          *slog.Logger
}

// --- Chain configuration ---

// WithArriveBy overrides the search direction declared by the document.
func WithArriveBy(arriveBy bool) Option { return func(o *options) { o.arriveBy = &arriveBy } }

// WithGroupByP sets the fraction of total distance used for grouping
// itineraries by shared legs (default: 0.68).
func WithGroupByP(p float64) Option { return func(o *options) { o.groupByP = &p } }

// WithApproximateMinLimit sets the approximate minimum number of
// itineraries to keep (default: 3).
func WithApproximateMinLimit(n int) Option { return func(o *options) { o.minLimit = &n } }

// WithMaxLimit sets the maximum number of itineraries returned
// (default: 20).
func WithMaxLimit(n int) Option { return func(o *options) { o.maxLimit = &n } }

// WithTransitSlack enables timetable-variation reduction with the given
// slack. Disabled by default.
func WithTransitSlack(d time.Duration) Option { return func(o *options) { o.transitSlack = &d } }

// WithLatestDepartureTime removes itineraries departing after the given
// instant.
func WithLatestDepartureTime(t time.Time) Option { return func(o *options) { o.latestDeparture = &t } }

// WithMaxLimitReachedSubscriber registers a callback invoked with the
// one-line description of the first itinerary cut by the maximum-limit
// stage. Use it to surface a "more results available" hint when the
// result list was capped.
func WithMaxLimitReachedSubscriber(fn func(itinerary string)) Option {
	return func(o *options) { o.maxLimitReached = fn }
}

// WithStreetDominance toggles removal of transit itineraries costlier
// than the best street-only alternative (default: enabled).
func WithStreetDominance(enable bool) Option { return func(o *options) { o.streetDominance = &enable } }

// WithDebug makes the chain non-destructive: removed itineraries are
// kept and tagged with a system notice naming the responsible stage.
func WithDebug() Option { return func(o *options) { o.debug = true } }

// WithProfile applies a named filter profile before explicit options.
// Built-in profile names are listed by config file documentation;
// custom profiles require WithProfileData.
func WithProfile(name string) Option { return func(o *options) { o.profile = name } }

// WithProfileData sets raw YAML bytes of a config file whose profiles
// section defines custom profiles resolvable by WithProfile.
func WithProfileData(data []byte) Option { return func(o *options) { o.profileData = data } }

// --- Output ---

// WithFormat sets the output format (default: FormatYAML).
func WithFormat(format string) Option { return func(o *options) { o.format = format } }

// WithLogger sets a structured logger for the run. By default all
// logging is discarded.
func WithLogger(logger *slog.Logger) Option { return func(o *options) { o.logger = logger } }

// Result holds the output of a successful filter run.
type Result struct {
	// Output is the serialized result in the requested format.
	Output []byte

	// FormatVersion is the input document's schema version.
	FormatVersion string

	// ArriveBy is the effective search direction of the run.
	ArriveBy bool

	// Stages are the chain stage names in execution order.
	Stages []string

	// CandidateCount is the number of input itineraries.
	CandidateCount int

	// SurfacedCount is the number of itineraries in the result.
	SurfacedCount int
}

// Removed reports how many itineraries the chain dropped. Always zero
// for debug runs, which tag instead of removing.
func (r *Result) Removed() int {
	return r.CandidateCount - r.SurfacedCount
}

// Filter runs the filter chain over a serialized candidate itinerary
// document (YAML or JSON) and returns the serialized result.
//
// Pass no options to use all defaults:
//
//	result, err := tripfilter.Filter(ctx, data)
func Filter(ctx context.Context, data []byte, opts ...Option) (*Result, error) {
	if len(data) == 0 {
		return nil, errors.New("input document must not be empty")
	}

	o := &options{format: FormatYAML}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.Discard()
	}

	doc, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	chain, arriveBy, err := buildChain(doc.ArriveBy, o)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "filter chain built",
		slog.Bool("arriveBy", arriveBy),
		slog.Any("stages", chain.StageNames()),
	)

	surfaced := chain.Apply(doc.Itineraries)

	serializer, err := output.DefaultRegistry().Serializer(o.format)
	if err != nil {
		return nil, err
	}

	rendered, err := serializer(output.NewResult(doc.FormatVersion, arriveBy, chain.StageNames(), surfaced))
	if err != nil {
		return nil, fmt.Errorf("serializing result: %w", err)
	}

	logger.InfoContext(ctx, "filter chain complete",
		slog.Int("candidates", len(doc.Itineraries)),
		slog.Int("surfaced", len(surfaced)),
	)

	return &Result{
		Output:         rendered,
		FormatVersion:  doc.FormatVersion,
		ArriveBy:       arriveBy,
		Stages:         chain.StageNames(),
		CandidateCount: len(doc.Itineraries),
		SurfacedCount:  len(surfaced),
	}, nil
}

// FilterFile is a convenience wrapper around Filter that reads the
// document from a file.
func FilterFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	return Filter(ctx, data, opts...)
}

// buildChain resolves the effective chain configuration: the document's
// direction is the baseline, then the profile, then explicit options.
func buildChain(docArriveBy bool, o *options) (*filter.Chain, bool, error) {
	var profile config.ProfileConfig

	if o.profile != "" {
		var custom map[string]config.ProfileConfig

		if len(o.profileData) > 0 {
			parsed, err := config.ParseProfiles(o.profileData)
			if err != nil {
				return nil, false, fmt.Errorf("parsing profiles: %w", err)
			}

			custom = parsed
		}

		p, err := config.ResolveProfile(o.profile, custom)
		if err != nil {
			return nil, false, err
		}

		profile = p
	}

	arriveBy := docArriveBy
	if profile.ArriveBy != nil {
		arriveBy = *profile.ArriveBy
	}

	if o.arriveBy != nil {
		arriveBy = *o.arriveBy
	}

	b := filter.NewChainBuilder(arriveBy)

	if profile.GroupByP != nil {
		b.WithGroupByP(*profile.GroupByP)
	}

	if o.groupByP != nil {
		b.WithGroupByP(*o.groupByP)
	}

	if profile.MinLimit != nil {
		b.WithApproximateMinLimit(*profile.MinLimit)
	}

	if o.minLimit != nil {
		b.WithApproximateMinLimit(*o.minLimit)
	}

	if profile.MaxLimit != nil {
		b.WithMaxLimit(*profile.MaxLimit)
	}

	if o.maxLimit != nil {
		b.WithMaxLimit(*o.maxLimit)
	}

	if o.maxLimitReached != nil {
		fn := o.maxLimitReached
		b.WithMaxLimitReachedSubscriber(func(it *trip.Itinerary) { fn(it.String()) })
	}

	if profile.TransitSlack != "" {
		slack, err := profile.ParseTransitSlack()
		if err != nil {
			return nil, false, err
		}

		b.WithTransitSlack(slack)
	}

	if o.transitSlack != nil {
		b.WithTransitSlack(*o.transitSlack)
	}

	if profile.StreetDominance != nil {
		b.WithRemoveTransitCostlierThanStreet(*profile.StreetDominance)
	}

	if o.streetDominance != nil {
		b.WithRemoveTransitCostlierThanStreet(*o.streetDominance)
	}

	if o.latestDeparture != nil {
		b.WithLatestDepartureTime(*o.latestDeparture)
	}

	if (profile.Debug != nil && *profile.Debug) || o.debug {
		b.WithDebug()
	}

	return b.Build(), arriveBy, nil
}

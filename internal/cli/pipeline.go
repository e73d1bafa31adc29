package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tripfilter/internal/config"
	"github.com/hupe1980/tripfilter/internal/filter"
	"github.com/hupe1980/tripfilter/internal/logging"
	"github.com/hupe1980/tripfilter/internal/trip"
	"github.com/hupe1980/tripfilter/internal/trip/parser"
)

// pipelineResult holds the outputs of one parse→build→apply run.
type pipelineResult struct {
	Doc         *parser.Document
	Chain       *filter.Chain
	ArriveBy    bool
	Itineraries []*trip.Itinerary
}

// runPipeline executes the full candidate→result pipeline: parse the
// input document, resolve the chain configuration, and apply the chain.
// This is the shared core used by the filter, diff, and watch commands.
func runPipeline(ctx context.Context, cmd *cobra.Command, path string, opts *chainOptions) (*pipelineResult, error) {
	logger := logging.FromContext(ctx)

	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	logger.Info("document parsed",
		slog.String("path", path),
		slog.String("formatVersion", doc.FormatVersion),
		slog.Int("itineraries", len(doc.Itineraries)),
	)

	chain, arriveBy, err := buildChain(ctx, cmd, doc.ArriveBy, opts)
	if err != nil {
		return nil, err
	}

	result := chain.Apply(doc.Itineraries)

	logger.Info("filter chain complete",
		slog.Int("candidates", len(doc.Itineraries)),
		slog.Int("surfaced", len(result)),
		slog.Any("stages", chain.StageNames()),
	)

	return &pipelineResult{
		Doc:         doc,
		Chain:       chain,
		ArriveBy:    arriveBy,
		Itineraries: result,
	}, nil
}

// loadDocument parses and validates a candidate itinerary file.
// Parse and validation failures map to exit code 7.
func loadDocument(path string) (*parser.Document, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, &ExitError{Code: 7, Err: err}
	}

	return doc, nil
}

// buildChain resolves the effective chain configuration (profile first,
// explicit flags win) and assembles the chain. It returns the chain and
// the effective search direction.
func buildChain(ctx context.Context, cmd *cobra.Command, docArriveBy bool, opts *chainOptions) (*filter.Chain, bool, error) {
	flags := cmd.Flags()

	var profile config.ProfileConfig

	if opts.profile != "" {
		var customProfiles map[string]config.ProfileConfig

		if configData, err := tryReadConfigFile(ctx); err == nil && configData != nil {
			customProfiles, _ = config.ParseProfiles(configData)
		}

		p, err := config.ResolveProfile(opts.profile, customProfiles)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Err: err}
		}

		profile = p
	}

	// The document's direction is the baseline; profile and explicit
	// flag override it in that order.
	arriveBy := docArriveBy
	if profile.ArriveBy != nil {
		arriveBy = *profile.ArriveBy
	}

	if flags.Changed("arrive-by") {
		arriveBy = opts.arriveBy
	}

	b := filter.NewChainBuilder(arriveBy)

	if profile.GroupByP != nil {
		b.WithGroupByP(*profile.GroupByP)
	}

	if flags.Changed("group-by-p") {
		b.WithGroupByP(opts.groupByP)
	}

	if profile.MinLimit != nil {
		b.WithApproximateMinLimit(*profile.MinLimit)
	}

	if flags.Changed("min-limit") {
		b.WithApproximateMinLimit(opts.minLimit)
	}

	if profile.MaxLimit != nil {
		b.WithMaxLimit(*profile.MaxLimit)
	}

	if flags.Changed("max-limit") {
		b.WithMaxLimit(opts.maxLimit)
	}

	logger := logging.FromContext(ctx)
	b.WithMaxLimitReachedSubscriber(func(it *trip.Itinerary) {
		logger.Info("result list capped at max limit",
			slog.String("firstDropped", it.String()),
		)
	})

	if profile.TransitSlack != "" {
		slack, err := profile.ParseTransitSlack()
		if err != nil {
			return nil, false, &ExitError{Code: 2, Err: err}
		}

		b.WithTransitSlack(slack)
	}

	if flags.Changed("transit-slack") {
		b.WithTransitSlack(opts.transitSlack)
	}

	if profile.StreetDominance != nil {
		b.WithRemoveTransitCostlierThanStreet(*profile.StreetDominance)
	}

	if flags.Changed("street-dominance") {
		b.WithRemoveTransitCostlierThanStreet(opts.streetDominance)
	}

	if opts.latestDeparture != "" {
		limit, err := time.Parse(time.RFC3339, opts.latestDeparture)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Err: fmt.Errorf("parsing --latest-departure: %w", err)}
		}

		b.WithLatestDepartureTime(limit)
	}

	if (profile.Debug != nil && *profile.Debug) || opts.debug {
		b.WithDebug()
	}

	return b.Build(), arriveBy, nil
}

// tryReadConfigFile attempts to read the config file. It first checks for
// a path resolved by the --config flag (stored in the Config struct); if
// not set, it falls back to .tripfilter.yaml in the current directory.
func tryReadConfigFile(ctx context.Context) ([]byte, error) {
	// Prefer the config file path resolved by viper (respects --config).
	cfg := config.FromContext(ctx)
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}

		return data, nil
	}

	// Fallback: auto-discover .tripfilter.yaml in current directory.
	data, err := os.ReadFile(".tripfilter.yaml")
	if err != nil {
		return nil, err
	}

	return data, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tripfilter/internal/logging"
	"github.com/hupe1980/tripfilter/internal/output"
)

type filterOptions struct {
	chainOptions
	outputOptions

	dryRun bool
}

func newFilterCommand() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter <itineraries-file>",
		Short: "Run the filter chain over a candidate itinerary file",
		Long: `Filter reads a candidate itinerary document (YAML or JSON), runs it
through the configured filter chain, and writes the surfaced
itineraries.

The chain removes transit itineraries dominated by a street-only
alternative, collapses timetable variations of the same ride, groups
itineraries travelling the same corridor, applies an optional departure
cutoff, sorts by arrival (or departure for arrive-by searches), and
caps the result count.

With --debug no itinerary is deleted: removed ones are tagged with a
system notice naming the responsible stage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerChainFlags(cmd, &opts.chainOptions)
	registerOutputFlags(cmd, &opts.outputOptions)

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "preview output without writing files")

	return cmd
}

func runFilter(ctx context.Context, cmd *cobra.Command, path string, opts *filterOptions) error {
	logger := logging.FromContext(ctx)

	res, err := runPipeline(ctx, cmd, path, &opts.chainOptions)
	if err != nil {
		return err
	}

	serializer, err := output.DefaultRegistry().Serializer(opts.format)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	result := output.NewResult(res.Doc.FormatVersion, res.ArriveBy, res.Chain.StageNames(), res.Itineraries)

	data, err := serializer(result)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("serializing result: %w", err)}
	}

	if opts.dryRun {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "# Dry-run mode — output preview:")
	}

	if opts.outputFile != "" && !opts.dryRun {
		w := output.NewFileWriter(opts.outputFile, output.WithLogger(logger))
		if err := w.Write(data); err != nil {
			return &ExitError{Code: 6, Err: fmt.Errorf("writing output: %w", err)}
		}

		logger.Info("result written", slog.String("path", opts.outputFile))
	} else {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return &ExitError{Code: 6, Err: fmt.Errorf("writing output: %w", err)}
		}
	}

	printFilterSummary(cmd.ErrOrStderr(), res)

	return nil
}

// printFilterSummary prints a human-readable summary of the run.
func printFilterSummary(w io.Writer, res *pipelineResult) {
	_, _ = fmt.Fprintf(w, "\n--- Filter Summary ---\n")
	_, _ = fmt.Fprintf(w, "Candidates: %d\n", len(res.Doc.Itineraries))
	_, _ = fmt.Fprintf(w, "Surfaced:   %d\n", len(res.Itineraries))
	_, _ = fmt.Fprintf(w, "Removed:    %d\n", len(res.Doc.Itineraries)-len(res.Itineraries))
	_, _ = fmt.Fprintf(w, "Stages:     %d\n", len(res.Chain.Filters()))
	_, _ = fmt.Fprintf(w, "----------------------\n")
}

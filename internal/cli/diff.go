package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tripfilter/internal/output"
	"github.com/hupe1980/tripfilter/internal/report"
)

type diffOptions struct {
	chainOptions

	// Disable ANSI color output.
	noColor bool

	// Skip the per-stage removal listing after the diff.
	noRemovals bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <itineraries-file>",
		Short: "Show what the filter chain removes from a candidate set",
		Long: `Diff runs the filter chain over a candidate itinerary file and prints
a unified diff between the raw candidate set and the surfaced result.

A per-stage removal listing follows the diff, attributing each removed
itinerary to the stage that dropped it. Use --no-removals to print the
diff alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.noColor, "no-color", false, "disable ANSI color output")
	f.BoolVar(&opts.noRemovals, "no-removals", false, "skip the per-stage removal listing")

	registerChainFlags(cmd, &opts.chainOptions)

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, path string, opts *diffOptions) error {
	// The removal listing needs a debug run, which tags itineraries in
	// place. Run the destructive chain and serialize both sides first.
	res, err := runPipeline(ctx, cmd, path, &opts.chainOptions)
	if err != nil {
		return err
	}

	candidates := output.NewResult(res.Doc.FormatVersion, res.ArriveBy, nil, res.Doc.Itineraries)

	candidatesYAML, err := output.SerializeYAML(candidates)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("serializing candidates: %w", err)}
	}

	filtered := output.NewResult(res.Doc.FormatVersion, res.ArriveBy, res.Chain.StageNames(), res.Itineraries)

	filteredYAML, err := output.SerializeYAML(filtered)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("serializing filtered result: %w", err)}
	}

	diffOpts := report.DefaultDiffOptions()
	diffOpts.OldLabel = path

	diffResult, err := report.ComputeDiff(string(candidatesYAML), string(filteredYAML), diffOpts)
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("computing diff: %w", err)}
	}

	w := cmd.OutOrStdout()
	report.WriteDiff(w, diffResult, !opts.noColor)

	if opts.noRemovals {
		return nil
	}

	// Rerun in debug mode to attribute each removal to its stage.
	debugOpts := opts.chainOptions
	debugOpts.debug = true

	debugChain, _, err := buildChain(ctx, cmd, res.Doc.ArriveBy, &debugOpts)
	if err != nil {
		return err
	}

	tagged := debugChain.Apply(res.Doc.Itineraries)
	removals := report.CollectRemovals(tagged)

	_, _ = fmt.Fprintln(w)
	report.WriteRemovals(w, removals)

	return nil
}

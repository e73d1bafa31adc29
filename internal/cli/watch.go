package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/tripfilter/internal/output"
	"github.com/hupe1980/tripfilter/internal/watch"
)

type watchOptions struct {
	chainOptions
	outputOptions

	// Watch-specific options.
	debounce time.Duration
	validate bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <itineraries-file>",
		Short: "Watch a candidate file and rerun the chain on changes",
		Long: `Watch monitors a candidate itinerary file and automatically reruns
the filter chain whenever the file changes.

File changes are debounced to avoid rapid reruns. Each run reports
input, output, and removed itinerary counts. Use --validate (enabled
by default) to check the written output after each run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerChainFlags(cmd, &opts.chainOptions)
	registerOutputFlags(cmd, &opts.outputOptions)

	// Watch-specific flags.
	f := cmd.Flags()
	f.DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")
	f.BoolVar(&opts.validate, "validate", true, "check the output file after each run")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string, opts *watchOptions) error {
	if opts.outputFile == "" {
		return &ExitError{Code: 2, Err: fmt.Errorf("--output (-o) is required for watch mode")}
	}

	serializer, err := output.DefaultRegistry().Serializer(opts.format)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	// Build the run function that executes the full pipeline.
	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		res, err := runPipeline(fnCtx, cmd, path, &opts.chainOptions)
		if err != nil {
			return nil, err
		}

		result := output.NewResult(res.Doc.FormatVersion, res.ArriveBy, res.Chain.StageNames(), res.Itineraries)

		data, serErr := serializer(result)
		if serErr != nil {
			return nil, fmt.Errorf("serializing result: %w", serErr)
		}

		w := output.NewFileWriter(opts.outputFile)
		if writeErr := w.Write(data); writeErr != nil {
			return nil, fmt.Errorf("writing output: %w", writeErr)
		}

		return &watch.RunResult{
			InputCount:  len(res.Doc.Itineraries),
			OutputCount: len(res.Itineraries),
			Stages:      res.Chain.StageNames(),
			OutputPath:  opts.outputFile,
		}, nil
	}

	// Build optional validate function. Only the YAML and JSON formats
	// round-trip; the table format is for humans and is not checked.
	var validateFn watch.ValidateFunc
	if opts.validate && opts.format != output.FormatTable {
		validateFn = func(_ context.Context, outputPath string) error {
			return checkOutputFile(outputPath)
		}
	}

	watchOpts := watch.Options{
		InputFile:  path,
		Debounce:   opts.debounce,
		Validate:   opts.validate,
		ValidateFn: validateFn,
		Out:        cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}

// checkOutputFile verifies that a written result file round-trips as a
// well-formed result document.
func checkOutputFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading output: %w", err)
	}

	var res output.Result
	if err := sigsyaml.UnmarshalStrict(data, &res); err != nil {
		return fmt.Errorf("parsing output: %w", err)
	}

	if res.FormatVersion == "" {
		return fmt.Errorf("output is missing formatVersion")
	}

	return nil
}

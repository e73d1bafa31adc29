package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a rerun of the
// filter chain. It returns the run result for status reporting.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the outcome of a single chain execution so the
// watcher can report itinerary counts and optionally validate.
type RunResult struct {
	InputCount  int
	OutputCount int
	Stages      []string
	OutputPath  string
}

// Removed reports how many itineraries the chain dropped.
func (r *RunResult) Removed() int {
	return r.InputCount - r.OutputCount
}

// Options configures the watch behaviour.
type Options struct {
	// InputFile is the candidate itinerary file to watch.
	InputFile string

	// ExtraFiles are additional files to watch (e.g. a profiles file).
	ExtraFiles []string

	// Debounce is the quiet period before triggering a rerun.
	Debounce time.Duration

	// Validate enables automatic validation after each run.
	Validate bool

	// ValidateFn is called after each run when Validate is true.
	// If nil, validation is skipped even when Validate is true.
	ValidateFn ValidateFunc

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Validate: true,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// ValidateFunc is called after each run to validate the output.
// It receives the output path and returns an error if validation fails.
type ValidateFunc func(ctx context.Context, outputPath string) error

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	input, err := filepath.Abs(opts.InputFile)
	if err != nil {
		return fmt.Errorf("resolving input file %q: %w", opts.InputFile, err)
	}

	// Watch the parent directory rather than the file itself: most
	// editors save by writing a temp file and renaming it over the
	// original, which would otherwise drop the watch.
	watched := map[string]bool{input: true}
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watching input directory: %w", err)
	}

	for _, f := range opts.ExtraFiles {
		abs, absErr := filepath.Abs(f)
		if absErr != nil {
			return fmt.Errorf("resolving extra file %q: %w", f, absErr)
		}

		watched[abs] = true

		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching file %q: %w", abs, err)
		}
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s, validate=%t)\n",
		opts.InputFile, opts.Debounce, opts.Validate)

	// Initial run.
	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		doRun(sigCtx, opts, runFn, path)
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, watched) {
				continue
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single chain run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d itineraries in, %d out, %d removed)\n",
		now, trigger, result.InputCount, result.OutputCount, result.Removed())

	if opts.Validate && opts.ValidateFn != nil && result.OutputPath != "" {
		if validateErr := opts.ValidateFn(ctx, result.OutputPath); validateErr != nil {
			fmt.Fprintf(opts.Out, "  validate: FAILED: %v\n", validateErr)
			return
		}

		fmt.Fprintf(opts.Out, "  validate: OK\n")
	}
}

// isRelevant filters out events on files we do not care about.
func isRelevant(event fsnotify.Event, watched map[string]bool) bool {
	if event.Op == 0 {
		return false
	}

	// Only care about write, create, remove, rename.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	// Ignore editor temporary files and hidden files.
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return watched[abs]
}

package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Debouncer
// ---------------------------------------------------------------------------

func TestDebouncer_SingleEvent(t *testing.T) {
	var callCount atomic.Int32
	var lastPath atomic.Value

	d := NewDebouncer(50*time.Millisecond, func(path string) {
		callCount.Add(1)
		lastPath.Store(path)
	})
	defer d.Stop()

	d.Trigger("a.yaml")

	// Wait for debounce to fire.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, "a.yaml", lastPath.Load())
}

func TestDebouncer_MultipleEventsCoalesced(t *testing.T) {
	var callCount atomic.Int32
	var lastPath atomic.Value

	d := NewDebouncer(100*time.Millisecond, func(path string) {
		callCount.Add(1)
		lastPath.Store(path)
	})
	defer d.Stop()

	// Fire 10 rapid events — should coalesce into 1.
	for i := 0; i < 10; i++ {
		d.Trigger("itineraries.yaml")
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, "itineraries.yaml", lastPath.Load())
}

func TestDebouncer_LastEventWins(t *testing.T) {
	var lastPath atomic.Value

	d := NewDebouncer(50*time.Millisecond, func(path string) {
		lastPath.Store(path)
	})
	defer d.Stop()

	d.Trigger("first.yaml")
	time.Sleep(10 * time.Millisecond)
	d.Trigger("second.yaml")
	time.Sleep(10 * time.Millisecond)
	d.Trigger("third.yaml")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, "third.yaml", lastPath.Load())
}

func TestDebouncer_Stop(t *testing.T) {
	var callCount atomic.Int32

	d := NewDebouncer(50*time.Millisecond, func(_ string) {
		callCount.Add(1)
	})

	d.Trigger("a.yaml")
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), callCount.Load())
}

// ---------------------------------------------------------------------------
// RunResult
// ---------------------------------------------------------------------------

func TestRunResult_Removed(t *testing.T) {
	r := &RunResult{InputCount: 8, OutputCount: 3}
	assert.Equal(t, 5, r.Removed())

	r = &RunResult{InputCount: 2, OutputCount: 2}
	assert.Equal(t, 0, r.Removed())
}

// ---------------------------------------------------------------------------
// isRelevant
// ---------------------------------------------------------------------------

func TestIsRelevant(t *testing.T) {
	input, err := filepath.Abs("itineraries.yaml")
	require.NoError(t, err)

	extra, err := filepath.Abs("profiles.yaml")
	require.NoError(t, err)

	watched := map[string]bool{input: true, extra: true}

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"input write", "itineraries.yaml", fsnotify.Write, true},
		{"extra write", "profiles.yaml", fsnotify.Write, true},
		{"create event", "itineraries.yaml", fsnotify.Create, true},
		{"remove event", "itineraries.yaml", fsnotify.Remove, true},
		{"rename event", "itineraries.yaml", fsnotify.Rename, true},
		{"unrelated file", "other.yaml", fsnotify.Write, false},
		{"hidden file", ".hidden", fsnotify.Write, false},
		{"swap file", "itineraries.yaml.swp", fsnotify.Write, false},
		{"backup tilde", "itineraries.yaml~", fsnotify.Write, false},
		{"emacs hash", "#itineraries.yaml#", fsnotify.Write, false},
		{"zero op", "itineraries.yaml", 0, false},
		{"chmod only", "itineraries.yaml", fsnotify.Chmod, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tt.path, Op: tt.op}
			assert.Equal(t, tt.want, isRelevant(event, watched))
		})
	}
}

// ---------------------------------------------------------------------------
// Run (integration)
// ---------------------------------------------------------------------------

func TestRun_GracefulShutdown(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "itineraries.yaml")
	require.NoError(t, os.WriteFile(inputFile, []byte("formatVersion: \"1.0\""), 0o644))

	ctx, cancel := context.WithCancel(context.Background())

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.InputFile = inputFile
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{InputCount: 3, OutputCount: 2}, nil
		})
	}()

	// Let initial run complete.
	time.Sleep(200 * time.Millisecond)
	assert.GreaterOrEqual(t, runCount.Load(), int32(1))

	// Cancel → should shut down gracefully.
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not shut down in time")
	}
}

func TestRun_FileChangeTriggersRerun(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "itineraries.yaml")
	require.NoError(t, os.WriteFile(inputFile, []byte("formatVersion: \"1.0\""), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.InputFile = inputFile
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{InputCount: 3, OutputCount: 2}, nil
		})
	}()

	// Wait for initial run.
	time.Sleep(200 * time.Millisecond)
	initialRuns := runCount.Load()

	// Modify the input file → should trigger a rerun.
	require.NoError(t, os.WriteFile(inputFile, []byte("formatVersion: \"1.1\""), 0o644))

	// Wait for debounce + processing.
	time.Sleep(300 * time.Millisecond)
	assert.Greater(t, runCount.Load(), initialRuns, "file change should trigger rerun")

	cancel()
	<-done
}

func TestRun_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "itineraries.yaml")
	otherFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(inputFile, []byte("formatVersion: \"1.0\""), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.InputFile = inputFile
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{InputCount: 1, OutputCount: 1}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	initialRuns := runCount.Load()

	// A different file in the same directory should not trigger a rerun.
	require.NoError(t, os.WriteFile(otherFile, []byte("scratch"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, initialRuns, runCount.Load(), "unrelated file should not trigger rerun")

	cancel()
	<-done
}

// ---------------------------------------------------------------------------
// DefaultOptions
// ---------------------------------------------------------------------------

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 500*time.Millisecond, opts.Debounce)
	assert.True(t, opts.Validate)
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.Out)
}

// ---------------------------------------------------------------------------
// Run error paths
// ---------------------------------------------------------------------------

func TestRun_InvalidInputDir(t *testing.T) {
	opts := DefaultOptions()
	opts.InputFile = "/nonexistent/dir/12345/itineraries.yaml"
	opts.Out = io.Discard

	err := Run(context.Background(), opts, func(_ context.Context) (*RunResult, error) {
		return &RunResult{}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching input directory")
}

func TestRun_RunFuncError(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "itineraries.yaml")
	require.NoError(t, os.WriteFile(inputFile, []byte("formatVersion: \"1.0\""), 0o644))

	ctx, cancel := context.WithCancel(context.Background())

	opts := DefaultOptions()
	opts.InputFile = inputFile
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	var callCount atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			callCount.Add(1)
			return nil, fmt.Errorf("parse error")
		})
	}()

	// Initial run will produce an error, but watcher continues.
	time.Sleep(200 * time.Millisecond)
	assert.GreaterOrEqual(t, callCount.Load(), int32(1))

	cancel()
	<-done
}

func TestRun_ExtraFiles(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "itineraries.yaml")
	require.NoError(t, os.WriteFile(inputFile, []byte("formatVersion: \"1.0\""), 0o644))

	extraFile := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(extraFile, []byte("profiles: {}"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCount atomic.Int32

	opts := DefaultOptions()
	opts.InputFile = inputFile
	opts.ExtraFiles = []string{extraFile}
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			runCount.Add(1)
			return &RunResult{InputCount: 2, OutputCount: 2}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	initialRuns := runCount.Load()

	// Modify the extra file → should trigger a rerun.
	require.NoError(t, os.WriteFile(extraFile, []byte("profiles:\n  fast: {}"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Greater(t, runCount.Load(), initialRuns, "extra file change should trigger rerun")

	cancel()
	<-done
}

func TestRun_ValidateFn(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "itineraries.yaml")
	require.NoError(t, os.WriteFile(inputFile, []byte("formatVersion: \"1.0\""), 0o644))

	ctx, cancel := context.WithCancel(context.Background())

	var validated atomic.Int32

	opts := DefaultOptions()
	opts.InputFile = inputFile
	opts.Debounce = 50 * time.Millisecond
	opts.Out = io.Discard
	opts.ValidateFn = func(_ context.Context, outputPath string) error {
		validated.Add(1)
		assert.Equal(t, "out.yaml", outputPath)

		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(_ context.Context) (*RunResult, error) {
			return &RunResult{InputCount: 1, OutputCount: 1, OutputPath: "out.yaml"}, nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	assert.GreaterOrEqual(t, validated.Load(), int32(1))

	cancel()
	<-done
}

package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces the bursts of filesystem events an editor save
// produces into a single filter rerun. A rerun fires only after the
// configured interval passes without further events.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	rerun    func(path string)
	lastPath string
}

// NewDebouncer creates a debouncer that waits for interval of quiet,
// then invokes rerun with the path of the last event seen.
func NewDebouncer(interval time.Duration, rerun func(path string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		rerun:    rerun,
	}
}

// Trigger records a change to the given path and restarts the quiet
// interval. Later triggers supersede earlier ones.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastPath = path

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.fire)
}

// fire runs the rerun callback. A panicking rerun must not kill the
// timer goroutine while the watch loop keeps running.
func (d *Debouncer) fire() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("filter rerun panicked", slog.Any("error", r))
		}
	}()

	d.mu.Lock()
	p := d.lastPath
	d.mu.Unlock()

	d.rerun(p)
}

// Stop cancels any pending rerun.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

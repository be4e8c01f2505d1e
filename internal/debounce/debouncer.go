// Package debounce delays free-text search updates until typing pauses.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet period after the last keystroke before a
// search is emitted.
const DefaultWindow = 300 * time.Millisecond

// Timer is a pending emission that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Tests inject a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer heap.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer is a trailing-edge debounce over query strings. At most one
// emission is pending at a time; a new update supersedes it.
type Debouncer struct {
	mu        sync.Mutex
	window    time.Duration
	emit      func(query string)
	scheduler Scheduler

	timer   Timer
	pending *string
	seq     uint64
	stopped bool
}

// Option customises a Debouncer.
type Option func(*Debouncer)

// WithScheduler overrides the timer source.
func WithScheduler(s Scheduler) Option {
	return func(d *Debouncer) {
		if s != nil {
			d.scheduler = s
		}
	}
}

// New creates a debouncer that calls emit once per pause in updates.
// A non-positive window falls back to DefaultWindow.
func New(window time.Duration, emit func(query string), opts ...Option) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	if emit == nil {
		emit = func(string) {}
	}
	d := &Debouncer{
		window:    window,
		emit:      emit,
		scheduler: RealScheduler{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Window returns the configured quiet period.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Start emits the initial query immediately so consumers begin from a known
// state instead of waiting out the first window.
func (d *Debouncer) Start(initial string) {
	d.emitNow(initial)
}

// Update records a keystroke: the pending emission is cancelled and the
// window restarts with the new value.
func (d *Debouncer) Update(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()
	seq := d.seq
	d.pending = &query
	d.timer = d.scheduler.AfterFunc(d.window, func() {
		d.fire(seq)
	})
}

// Clear cancels any pending emission and emits the empty query at once.
func (d *Debouncer) Clear() {
	d.emitNow("")
}

// Flush emits the pending value immediately, if there is one.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || d.pending == nil {
		d.mu.Unlock()
		return
	}
	query := *d.pending
	d.cancelLocked()
	d.mu.Unlock()
	d.emit(query)
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending emission. Later calls are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) emitNow(query string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.mu.Unlock()
	d.emit(query)
}

// cancelLocked drops the pending emission. Bumping seq also invalidates a
// callback that already left the timer heap but has not taken the lock.
func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.seq++
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	query := *d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	d.emit(query)
}

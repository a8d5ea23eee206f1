package viewstate

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet window for coalescing fragment writes while
// the user is still panning or dragging a slider.
const DefaultDebounce = 150 * time.Millisecond

// Scheduler abstracts timer creation so tests can drive the debounce clock
// deterministically. The returned cancel stops the callback if it has not
// fired yet.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// DebouncedWriter pushes view states to a sink. WriteDebounced coalesces a
// burst of calls into a single sink invocation carrying the last state of
// the burst; Write bypasses the window for callers that need the state
// persisted immediately.
type DebouncedWriter struct {
	sink   func(State)
	window time.Duration
	sched  Scheduler

	mu      sync.Mutex
	cancel  func()
	pending *State
}

// NewDebouncedWriter creates a writer over sink. A non-positive window falls
// back to DefaultDebounce; a nil scheduler uses real timers.
func NewDebouncedWriter(sink func(State), window time.Duration, sched Scheduler) *DebouncedWriter {
	if window <= 0 {
		window = DefaultDebounce
	}
	if sched == nil {
		sched = realScheduler{}
	}
	return &DebouncedWriter{sink: sink, window: window, sched: sched}
}

// Write pushes s to the sink immediately. A pending debounced write is left
// alone: whichever lands last on the timeline determines the final state.
func (w *DebouncedWriter) Write(s State) {
	w.sink(s)
}

// WriteDebounced schedules s to be written after the quiet window. Each call
// cancels the previously scheduled write, so only the last state of a burst
// reaches the sink.
func (w *DebouncedWriter) WriteDebounced(s State) {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.pending = &s
	w.cancel = w.sched.AfterFunc(w.window, w.fire)
	w.mu.Unlock()
}

func (w *DebouncedWriter) fire() {
	w.mu.Lock()
	p := w.pending
	w.pending = nil
	w.cancel = nil
	w.mu.Unlock()
	if p != nil {
		w.sink(*p)
	}
}

// Flush writes any pending debounced state now and cancels its timer. A
// no-op when nothing is pending.
func (w *DebouncedWriter) Flush() {
	w.mu.Lock()
	p := w.pending
	cancel := w.cancel
	w.pending = nil
	w.cancel = nil
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if p != nil {
		w.sink(*p)
	}
}

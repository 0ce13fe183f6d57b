package watcher

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// Debouncer coalesces bursts of file events into a single callback.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
	stopped  bool
	// running counts callbacks in flight.
	running sync.WaitGroup
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the window. It is a no-op after Stop.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Stop drops pending paths without invoking the callback and waits for a
// callback already in flight to return. It must not be called from the callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
	d.mu.Unlock()

	d.running.Wait()
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	paths := d.drain()
	d.timer = nil
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// Flush invokes the callback with the pending paths immediately and waits for it.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		if !d.timer.Stop() {
			// already firing
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.drain()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// drain must be called with mu held. Paths are returned sorted.
func (d *Debouncer) drain() []string {
	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	clear(d.pending)
	slices.Sort(paths)
	return paths
}

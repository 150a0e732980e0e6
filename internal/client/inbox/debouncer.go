package inbox

import (
	"sync"
	"time"
)

// Debouncer holds a path back until it has been quiet for delay. Capture
// apps write files in several chunks; only the last write matters.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*time.Timer
	output  chan string
	stopCh  chan struct{}
	once    sync.Once
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*time.Timer),
		output:  make(chan string, 64),
		stopCh:  make(chan struct{}),
	}
}

// Events delivers settled paths. The channel is never closed; select on it
// together with your own stop signal.
func (d *Debouncer) Events() <-chan string {
	return d.output
}

// Add (re)arms the timer for path.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	select {
	case <-d.stopCh:
		return
	default:
	}

	if t, ok := d.pending[path]; ok {
		t.Stop()
	}
	d.pending[path] = time.AfterFunc(d.delay, func() { d.emit(path) })
}

// Cancel drops a pending path, e.g. when the file was removed before it
// settled.
func (d *Debouncer) Cancel(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.pending[path]; ok {
		t.Stop()
		delete(d.pending, path)
	}
}

func (d *Debouncer) emit(path string) {
	d.mu.Lock()
	_, ok := d.pending[path]
	delete(d.pending, path)
	d.mu.Unlock()

	if !ok {
		return
	}
	select {
	case d.output <- path:
	case <-d.stopCh:
	}
}

// Stop discards everything pending. Further Adds are ignored.
func (d *Debouncer) Stop() {
	d.once.Do(func() {
		close(d.stopCh)
		d.mu.Lock()
		for _, t := range d.pending {
			t.Stop()
		}
		d.pending = make(map[string]*time.Timer)
		d.mu.Unlock()
	})
}

func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

package draft

import (
	"sync"
	"time"
)

// Stopwatch accumulates attendant-care time in whole seconds. Start after
// Stop continues from the accumulated total.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	running bool
	total   time.Duration
}

// NewStopwatch returns a stopped stopwatch. A nil clock means time.Now.
func NewStopwatch(clock func() time.Time) *Stopwatch {
	if clock == nil {
		clock = time.Now
	}
	return &Stopwatch{now: clock}
}

func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

func (s *Stopwatch) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.total += s.now().Sub(s.started)
	s.running = false
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = 0
	s.running = false
}

func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Seconds returns elapsed whole seconds, including a running segment.
func (s *Stopwatch) Seconds() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.total
	if s.running {
		d += s.now().Sub(s.started)
	}
	return int64(d / time.Second)
}

// Package watch fans journal change notifications out to stream
// subscribers.
package watch

import (
	"sync"
)

// Change is one row-level change on journal_entries.
type Change struct {
	ID   string `json:"id"`
	Op   string `json:"op"`
	Mode string `json:"mode"`
}

// Hub delivers published changes to every subscriber. A subscriber that
// falls behind loses changes rather than blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Change
	nextID int
	buf    int
}

func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: map[int]chan Change{}, buf: buffer}
}

// Subscribe registers a new subscriber. The returned cancel func closes the
// channel and must be called once the subscriber is done.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Change, h.buf)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// Publish sends c to all subscribers without blocking and returns how many
// received it.
func (h *Hub) Publish(c Change) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, ch := range h.subs {
		select {
		case ch <- c:
			n++
		default:
		}
	}
	return n
}

// Len returns the current subscriber count.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close drops every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

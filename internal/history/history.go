package history

import (
	"sort"
	"sync"

	"goldwatch/internal/quote"
)

const DefaultCapacity = 240

// History holds the most recent quotes for one source, oldest first.
// Appending past capacity drops the oldest entry.
type History struct {
	mu       sync.RWMutex
	capacity int
	quotes   []quote.Quote
}

func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

func (h *History) Append(q quote.Quote) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.quotes = append(h.quotes, q)
	if len(h.quotes) > h.capacity {
		h.quotes = h.quotes[len(h.quotes)-h.capacity:]
	}
}

// Seed replaces the buffer with quotes loaded from the journal, sorted by
// time and truncated to the newest capacity entries.
func (h *History) Seed(qs []quote.Quote) {
	sorted := make([]quote.Quote, len(qs))
	copy(sorted, qs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(sorted) > h.capacity {
		sorted = sorted[len(sorted)-h.capacity:]
	}
	h.quotes = sorted
}

// Snapshot returns a copy of the buffered quotes in chronological order.
func (h *History) Snapshot() []quote.Quote {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]quote.Quote, len(h.quotes))
	copy(out, h.quotes)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.quotes)
}

func (h *History) Capacity() int {
	return h.capacity
}

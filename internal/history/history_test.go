package history

import (
	"testing"
	"time"

	"goldwatch/internal/quote"
)

func mk(price float64, sec int) quote.Quote {
	return quote.Quote{
		Source:    "zs",
		Price:     price,
		Timestamp: time.Date(2026, 8, 27, 10, 0, sec, 0, time.UTC),
	}
}

func TestAppendNeverExceedsCapacity(t *testing.T) {
	h := New(5)

	for i := 0; i < 20; i++ {
		h.Append(mk(float64(i), i))
		if h.Len() > 5 {
			t.Fatalf("length %d exceeds capacity after %d appends", h.Len(), i+1)
		}
	}

	qs := h.Snapshot()
	if len(qs) != 5 {
		t.Fatalf("expected 5 quotes, got %d", len(qs))
	}
	// Oldest dropped first: the tail of the appends survives.
	for i, q := range qs {
		if q.Price != float64(15+i) {
			t.Errorf("quote %d: price = %v, want %v", i, q.Price, float64(15+i))
		}
	}
}

func TestSeedSortsAndTruncates(t *testing.T) {
	h := New(3)

	h.Seed([]quote.Quote{mk(4, 40), mk(1, 10), mk(3, 30), mk(2, 20)})

	qs := h.Snapshot()
	if len(qs) != 3 {
		t.Fatalf("expected 3 quotes after seed, got %d", len(qs))
	}
	want := []float64{2, 3, 4}
	for i, q := range qs {
		if q.Price != want[i] {
			t.Errorf("quote %d: price = %v, want %v", i, q.Price, want[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := New(10)
	h.Append(mk(1, 0))

	qs := h.Snapshot()
	qs[0].Price = 99

	if got := h.Snapshot()[0].Price; got != 1 {
		t.Fatalf("snapshot mutation leaked into buffer: price = %v", got)
	}
}

func TestDefaultCapacity(t *testing.T) {
	h := New(0)
	if h.Capacity() != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", h.Capacity(), DefaultCapacity)
	}
}

package store

import (
	"sync"
	"testing"
	"time"

	"goldwatch/internal/quote"
)

func TestErrorKeepsLastGoodQuote(t *testing.T) {
	s := NewStore()

	q := quote.Quote{Source: "zs", Price: 885.5, Timestamp: time.Now()}
	s.SetQuote(q)

	s.SetError("zs", quote.StatusRequestFailed, "connection refused", time.Now())

	e, ok := s.Get("zs")
	if !ok {
		t.Fatal("entry missing")
	}
	if e.Status.Code != quote.StatusRequestFailed {
		t.Errorf("status = %v, want request_failed", e.Status.Code)
	}
	if e.Quote == nil || e.Quote.Price != 885.5 {
		t.Errorf("last good quote lost: %+v", e.Quote)
	}

	// Next successful tick clears the error.
	s.SetQuote(quote.Quote{Source: "zs", Price: 886, Timestamp: time.Now()})
	e, _ = s.Get("zs")
	if e.Status.Code != quote.StatusOK {
		t.Errorf("status = %v, want ok", e.Status.Code)
	}
}

func TestErrorBeforeAnyQuote(t *testing.T) {
	s := NewStore()
	s.SetError("ms", quote.StatusBadPayload, "invalid character", time.Now())

	e, ok := s.Get("ms")
	if !ok {
		t.Fatal("entry missing")
	}
	if e.Quote != nil {
		t.Errorf("quote = %+v, want nil", e.Quote)
	}
	if e.Status.Code != quote.StatusBadPayload {
		t.Errorf("status = %v, want bad_payload", e.Status.Code)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	sources := []string{"zs", "ms"}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for _, src := range sources {
				s.SetQuote(quote.Quote{
					Source:    src,
					Price:     float64(idx * 100),
					Timestamp: time.Now(),
				})
				s.SetError(src, quote.StatusRequestFailed, "x", time.Now())
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, src := range sources {
				_, _ = s.Get(src)
				_ = s.All()
			}
		}()
	}

	wg.Wait()
}

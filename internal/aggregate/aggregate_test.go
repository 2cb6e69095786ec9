package aggregate

import (
	"testing"
	"time"

	"goldwatch/internal/quote"
)

func q(price float64, at time.Time) quote.Quote {
	return quote.Quote{Source: "zs", Price: price, Timestamp: at}
}

func TestBucketEmittedOnIntervalCrossing(t *testing.T) {
	a := NewAggregator(time.Minute)
	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	if _, ok := a.Push(q(885, base)); ok {
		t.Fatal("bucket emitted on first quote")
	}
	if _, ok := a.Push(q(887, base.Add(15*time.Second))); ok {
		t.Fatal("bucket emitted inside the interval")
	}
	if _, ok := a.Push(q(884, base.Add(45*time.Second))); ok {
		t.Fatal("bucket emitted inside the interval")
	}

	b, ok := a.Push(q(886, base.Add(61*time.Second)))
	if !ok {
		t.Fatal("expected completed bucket on interval crossing")
	}
	if b.Count != 3 {
		t.Errorf("count = %d, want 3", b.Count)
	}
	if b.Min != 884 || b.Max != 887 {
		t.Errorf("min/max = %v/%v, want 884/887", b.Min, b.Max)
	}
	if want := (885.0 + 887.0 + 884.0) / 3.0; b.Avg != want {
		t.Errorf("avg = %v, want %v", b.Avg, want)
	}
	if !b.Start.Equal(base) || !b.End.Equal(base.Add(time.Minute)) {
		t.Errorf("bucket bounds = %v..%v", b.Start, b.End)
	}
}

func TestFlushReturnsPendingBucket(t *testing.T) {
	a := NewAggregator(time.Minute)
	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	if _, ok := a.Flush(); ok {
		t.Fatal("flush on empty aggregator returned a bucket")
	}

	a.Push(q(885, base))
	a.Push(q(886, base.Add(10*time.Second)))

	b, ok := a.Flush()
	if !ok {
		t.Fatal("expected pending bucket from flush")
	}
	if b.Count != 2 || b.Avg != 885.5 {
		t.Errorf("bucket = %+v", b)
	}

	if _, ok := a.Flush(); ok {
		t.Fatal("second flush returned a bucket")
	}
}

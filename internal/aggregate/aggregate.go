package aggregate

import (
	"time"

	"goldwatch/internal/quote"
)

// Bucket is the avg/min/max summary of one interval for one source.
type Bucket struct {
	Source string    `json:"source"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Avg    float64   `json:"avg"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Count  int       `json:"count"`
}

// Aggregator folds quotes into fixed interval buckets. Push returns the
// completed bucket when a quote lands in a new interval.
type Aggregator struct {
	interval time.Duration

	hasCurrent bool
	current    Bucket
	sum        float64
}

func NewAggregator(interval time.Duration) *Aggregator {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Aggregator{interval: interval}
}

func (a *Aggregator) Push(q quote.Quote) (Bucket, bool) {
	bucketStart := q.Timestamp.Truncate(a.interval)

	if !a.hasCurrent {
		a.start(q, bucketStart)
		return Bucket{}, false
	}

	if a.current.Start.Equal(bucketStart) {
		if q.Price < a.current.Min {
			a.current.Min = q.Price
		}
		if q.Price > a.current.Max {
			a.current.Max = q.Price
		}
		a.sum += q.Price
		a.current.Count++
		return Bucket{}, false
	}

	completed := a.finish()
	a.start(q, bucketStart)
	return completed, true
}

// Flush returns the in-progress bucket, if any. Used at shutdown.
func (a *Aggregator) Flush() (Bucket, bool) {
	if !a.hasCurrent {
		return Bucket{}, false
	}
	completed := a.finish()
	a.hasCurrent = false
	return completed, true
}

func (a *Aggregator) start(q quote.Quote, bucketStart time.Time) {
	a.current = Bucket{
		Source: q.Source,
		Start:  bucketStart,
		End:    bucketStart.Add(a.interval),
		Min:    q.Price,
		Max:    q.Price,
		Count:  1,
	}
	a.sum = q.Price
	a.hasCurrent = true
}

func (a *Aggregator) finish() Bucket {
	completed := a.current
	completed.Avg = a.sum / float64(completed.Count)
	return completed
}

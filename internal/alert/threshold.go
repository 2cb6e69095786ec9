package alert

import (
	"sync"
	"time"

	"goldwatch/internal/quote"
)

type Level string

const (
	LevelNormal Level = "normal"
	LevelSell   Level = "sell"
	LevelBuy    Level = "buy"
)

// Thresholds are the user-set price levels for one source. A nil side is
// unset and never matches.
type Thresholds struct {
	Sell *float64 `json:"sell"`
	Buy  *float64 `json:"buy"`
}

type Alert struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Level     Level     `json:"level"`
	Price     float64   `json:"price"`
	Threshold float64   `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}

// Watcher classifies each quote against the thresholds and emits one alert
// per band entry. The price must return to the normal band before the same
// side can fire again.
type Watcher struct {
	mu sync.Mutex

	thresholds Thresholds

	level        Level
	sellNotified bool
	buyNotified  bool
}

func NewWatcher() *Watcher {
	return &Watcher{level: LevelNormal}
}

func (w *Watcher) SetThresholds(t Thresholds) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.thresholds = t
}

func (w *Watcher) Thresholds() Thresholds {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.thresholds
}

func (w *Watcher) Level() Level {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level
}

func (w *Watcher) Push(q quote.Quote) (Alert, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := w.thresholds

	switch {
	case t.Sell != nil && q.Price >= *t.Sell:
		w.level = LevelSell
		if w.sellNotified {
			return Alert{}, false
		}
		w.sellNotified = true
		return Alert{
			Type:      "alert",
			Source:    q.Source,
			Level:     LevelSell,
			Price:     q.Price,
			Threshold: *t.Sell,
			Timestamp: q.Timestamp,
		}, true

	case t.Buy != nil && q.Price <= *t.Buy:
		w.level = LevelBuy
		if w.buyNotified {
			return Alert{}, false
		}
		w.buyNotified = true
		return Alert{
			Type:      "alert",
			Source:    q.Source,
			Level:     LevelBuy,
			Price:     q.Price,
			Threshold: *t.Buy,
			Timestamp: q.Timestamp,
		}, true

	default:
		// Back in the normal band: re-arm both sides.
		w.level = LevelNormal
		w.sellNotified = false
		w.buyNotified = false
		return Alert{}, false
	}
}

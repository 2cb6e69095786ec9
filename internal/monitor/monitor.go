package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"goldwatch/internal/aggregate"
	"goldwatch/internal/alert"
	"goldwatch/internal/feed"
	"goldwatch/internal/history"
	"goldwatch/internal/journal"
	"goldwatch/internal/quote"
	"goldwatch/internal/store"
)

type Fetcher interface {
	Fetch(ctx context.Context, src quote.Source) (quote.Quote, error)
}

type Cache interface {
	SetLatest(ctx context.Context, q quote.Quote) error
}

type Sink interface {
	SaveBuckets(ctx context.Context, buckets []aggregate.Bucket) error
}

type Broadcaster interface {
	PublishJSON(b []byte)
}

type Options struct {
	Interval          time.Duration
	HistoryCap        int
	LogDir            string
	AggregateInterval time.Duration

	Cache  Cache       // optional
	Sink   Sink        // optional
	Hub    Broadcaster // optional
	Logger *slog.Logger
}

type sourceState struct {
	src     quote.Source
	history *history.History
	journal *journal.Journal
	watcher *alert.Watcher
	agg     *aggregate.Aggregator
}

// Monitor drives the poll loop: one tick fetches every source in order and
// runs to completion before the next is scheduled. A failed fetch leaves a
// classified status for that source until the following tick.
type Monitor struct {
	fetcher  Fetcher
	store    *store.Store
	cache    Cache
	sink     Sink
	hub      Broadcaster
	logger   *slog.Logger
	interval time.Duration

	sources []*sourceState
	bySrc   map[string]*sourceState
}

func New(fetcher Fetcher, st *store.Store, sources []quote.Source, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LogDir == "" {
		opts.LogDir = "log"
	}

	m := &Monitor{
		fetcher:  fetcher,
		store:    st,
		cache:    opts.Cache,
		sink:     opts.Sink,
		hub:      opts.Hub,
		logger:   opts.Logger,
		interval: opts.Interval,
		bySrc:    make(map[string]*sourceState),
	}

	for _, src := range sources {
		s := &sourceState{
			src:     src,
			history: history.New(opts.HistoryCap),
			journal: journal.New(opts.LogDir, src.ID),
			watcher: alert.NewWatcher(),
			agg:     aggregate.NewAggregator(opts.AggregateInterval),
		}

		// Today's journal carries over across restarts.
		if qs, err := journal.LoadDay(opts.LogDir, src.ID, time.Now()); err != nil {
			m.logger.Warn("journal reload failed", "source", src.ID, "error", err)
		} else if len(qs) > 0 {
			s.history.Seed(qs)
			m.logger.Info("journal reloaded", "source", src.ID, "quotes", len(qs))
		}

		m.sources = append(m.sources, s)
		m.bySrc[src.ID] = s
	}

	return m
}

// Run polls until the context is cancelled, then flushes pending aggregate
// buckets and closes the journals.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	for _, s := range m.sources {
		if ctx.Err() != nil {
			return
		}
		m.pollSource(ctx, s)
	}
}

func (m *Monitor) pollSource(ctx context.Context, s *sourceState) {
	q, err := m.fetcher.Fetch(ctx, s.src)
	if err != nil {
		code := feed.Classify(err)
		m.store.SetError(s.src.ID, code, err.Error(), time.Now())
		m.logger.Warn("fetch failed", "source", s.src.ID, "code", string(code), "error", err)
		return
	}

	m.store.SetQuote(q)
	s.history.Append(q)

	if err := s.journal.Append(q); err != nil {
		m.logger.Error("journal append failed", "source", s.src.ID, "error", err)
	}

	if m.cache != nil {
		cacheCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := m.cache.SetLatest(cacheCtx, q); err != nil {
			m.logger.Error("cache update failed", "source", s.src.ID, "error", err)
		}
		cancel()
	}

	if b, ok := s.agg.Push(q); ok {
		m.persist(ctx, b)
	}

	m.publish(struct {
		Type string `json:"type"`
		quote.Quote
	}{Type: "quote", Quote: q})

	if a, ok := s.watcher.Push(q); ok {
		m.publish(a)
		m.logger.Info("threshold crossed",
			"source", a.Source, "level", string(a.Level),
			"price", a.Price, "threshold", a.Threshold)
	}
}

func (m *Monitor) persist(ctx context.Context, b aggregate.Bucket) {
	if m.sink == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.sink.SaveBuckets(saveCtx, []aggregate.Bucket{b}); err != nil {
		m.logger.Error("bucket save failed", "source", b.Source, "error", err)
	}
}

func (m *Monitor) publish(v any) {
	if m.hub == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	m.hub.PublishJSON(b)
}

func (m *Monitor) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, s := range m.sources {
		if b, ok := s.agg.Flush(); ok {
			m.persist(ctx, b)
		}
		if err := s.journal.Close(); err != nil {
			m.logger.Error("journal close failed", "source", s.src.ID, "error", err)
		}
	}
}

// Sources lists the configured sources in poll order.
func (m *Monitor) Sources() []quote.Source {
	out := make([]quote.Source, 0, len(m.sources))
	for _, s := range m.sources {
		out = append(out, s.src)
	}
	return out
}

// History returns the buffered series for a source.
func (m *Monitor) History(source string) ([]quote.Quote, bool) {
	s, ok := m.bySrc[source]
	if !ok {
		return nil, false
	}
	return s.history.Snapshot(), true
}

func (m *Monitor) Thresholds(source string) (alert.Thresholds, bool) {
	s, ok := m.bySrc[source]
	if !ok {
		return alert.Thresholds{}, false
	}
	return s.watcher.Thresholds(), true
}

func (m *Monitor) SetThresholds(source string, t alert.Thresholds) bool {
	s, ok := m.bySrc[source]
	if !ok {
		return false
	}
	s.watcher.SetThresholds(t)
	return true
}

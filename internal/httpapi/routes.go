package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"goldwatch/internal/alert"
	"goldwatch/internal/monitor"
	"goldwatch/internal/quote"
	"goldwatch/internal/storage"
	"goldwatch/internal/store"
)

// StatsProvider serves period summaries from persisted buckets. Nil when no
// database is configured.
type StatsProvider interface {
	Stats(ctx context.Context, source string, period time.Duration) (*storage.PeriodStats, error)
}

// QuoteCache reads back the latest cached quote for a source. Nil when no
// cache is configured.
type QuoteCache interface {
	Latest(ctx context.Context, source string) (*quote.Quote, error)
	Ping(ctx context.Context) error
}

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Routes struct {
	store    *store.Store
	mon      *monitor.Monitor
	hub      *Hub
	stats    StatsProvider
	cache    QuoteCache
	db       Pinger
	upgrader websocket.Upgrader
}

func NewRoutes(st *store.Store, mon *monitor.Monitor, hub *Hub, stats StatsProvider, cache QuoteCache, db Pinger) *Routes {
	return &Routes{
		store: st,
		mon:   mon,
		hub:   hub,
		stats: stats,
		cache: cache,
		db:    db,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (rt *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /", rt.index)
	mux.HandleFunc("GET /health", rt.health)
	mux.HandleFunc("GET /quotes", rt.quotes)
	mux.HandleFunc("GET /quotes/{source}", rt.quoteBySource)
	mux.HandleFunc("GET /history/{source}", rt.historyBySource)
	mux.HandleFunc("GET /thresholds/{source}", rt.getThresholds)
	mux.HandleFunc("PUT /thresholds/{source}", rt.putThresholds)
	mux.HandleFunc("GET /stats/{source}", rt.statsBySource)
	mux.HandleFunc("GET /ws", rt.ws)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (rt *Routes) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := map[string]string{
		"status":   "ok",
		"redis":    backendStatus(ctx, rt.cache),
		"postgres": backendStatus(ctx, rt.db),
	}
	writeJSON(w, http.StatusOK, resp)
}

func backendStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}

func (rt *Routes) quotes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rt.store.All())
}

func (rt *Routes) quoteBySource(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	entry, ok := rt.store.Get(source)
	if !ok {
		// Before the first successful poll the cache may still hold the
		// previous run's quote.
		if rt.cache != nil {
			if q, err := rt.cache.Latest(r.Context(), source); err == nil && q != nil {
				writeJSON(w, http.StatusOK, store.Entry{
					Quote:  q,
					Status: quote.Status{Source: source, Code: quote.StatusOK, Timestamp: q.Timestamp},
				})
				return
			}
		}
		http.Error(w, "unknown source", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (rt *Routes) historyBySource(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	qs, ok := rt.mon.History(source)
	if !ok {
		http.Error(w, "unknown source", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

func (rt *Routes) getThresholds(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	t, ok := rt.mon.Thresholds(source)
	if !ok {
		http.Error(w, "unknown source", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (rt *Routes) putThresholds(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")

	var t alert.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if t.Sell != nil && t.Buy != nil && *t.Buy > *t.Sell {
		http.Error(w, "buy threshold above sell threshold", http.StatusBadRequest)
		return
	}

	if !rt.mon.SetThresholds(source, t) {
		http.Error(w, "unknown source", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (rt *Routes) statsBySource(w http.ResponseWriter, r *http.Request) {
	if rt.stats == nil {
		http.Error(w, "storage not configured", http.StatusNotImplemented)
		return
	}

	source := r.PathValue("source")
	period := time.Hour
	if p := r.URL.Query().Get("period"); p != "" {
		d, err := time.ParseDuration(p)
		if err != nil || d <= 0 {
			http.Error(w, "invalid period", http.StatusBadRequest)
			return
		}
		period = d
	}

	st, err := rt.stats.Stats(r.Context(), source, period)
	if err != nil {
		http.Error(w, "stats query failed", http.StatusInternalServerError)
		return
	}
	if st == nil {
		http.Error(w, "no data", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (rt *Routes) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := rt.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{send: make(chan []byte, 256)}
	rt.hub.register <- c

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		defer conn.Close()

		for msg := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	rt.hub.unregister <- c
	<-writeDone
}

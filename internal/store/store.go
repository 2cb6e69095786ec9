package store

import (
	"sync"
	"time"

	"goldwatch/internal/quote"
)

// Entry is the latest known state for one source: the last good quote (if
// any) and the outcome of the most recent fetch.
type Entry struct {
	Quote  *quote.Quote `json:"quote,omitempty"`
	Status quote.Status `json:"status"`
}

// Store keeps the latest quote and fetch status per source. An error status
// replaces the displayed state but never the last good quote.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]Entry),
	}
}

func (s *Store) SetQuote(q quote.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[q.Source] = Entry{
		Quote: &q,
		Status: quote.Status{
			Source:    q.Source,
			Code:      quote.StatusOK,
			Timestamp: q.Timestamp,
		},
	}
}

func (s *Store) SetError(source string, code quote.StatusCode, msg string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[source]
	e.Status = quote.Status{
		Source:    source,
		Code:      code,
		Message:   msg,
		Timestamp: at,
	}
	s.entries[source] = e
}

func (s *Store) Get(source string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[source]
	return e, ok
}

func (s *Store) All() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

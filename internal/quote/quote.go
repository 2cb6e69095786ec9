package quote

import "time"

// Quote is one price reading from a vendor endpoint.
type Quote struct {
	Source    string    `json:"source"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Source describes one vendor price endpoint.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"-"`
}

type StatusCode string

const (
	StatusOK            StatusCode = "ok"
	StatusRequestFailed StatusCode = "request_failed"
	StatusBadPayload    StatusCode = "bad_payload"
	StatusMissingField  StatusCode = "missing_field"
)

// Status is the outcome of the most recent fetch for a source. An error
// status stands until the next tick replaces it.
type Status struct {
	Source    string     `json:"source"`
	Code      StatusCode `json:"code"`
	Message   string     `json:"message,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

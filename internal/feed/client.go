package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"goldwatch/internal/quote"
)

var (
	// ErrBadPayload marks a response body that is not the expected JSON.
	ErrBadPayload = errors.New("bad payload")
	// ErrMissingField marks a well-formed response without price or time.
	ErrMissingField = errors.New("missing field")
)

// latestPriceResponse mirrors the vendor payload. Price arrives as a string
// on one endpoint and as a number on the other; time is epoch milliseconds.
type latestPriceResponse struct {
	ResultData struct {
		Datas struct {
			Price any `json:"price"`
			Time  any `json:"time"`
		} `json:"datas"`
	} `json:"resultData"`
}

type Client struct {
	hc *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		hc: &http.Client{Timeout: timeout},
	}
}

// Fetch performs one GET against the source endpoint and extracts the
// latest quote. Errors are classifiable via Classify.
func (c *Client) Fetch(ctx context.Context, src quote.Source) (quote.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return quote.Quote{}, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return quote.Quote{}, err
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return quote.Quote{}, fmt.Errorf("%s http %d", src.ID, resp.StatusCode)
	}

	var payload latestPriceResponse
	if err := json.Unmarshal(b, &payload); err != nil {
		return quote.Quote{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	datas := payload.ResultData.Datas
	if datas.Price == nil || datas.Time == nil {
		return quote.Quote{}, fmt.Errorf("%w: price or time absent", ErrMissingField)
	}

	price, ok := toFloat(datas.Price)
	if !ok {
		return quote.Quote{}, fmt.Errorf("%w: price %v", ErrMissingField, datas.Price)
	}
	ms, ok := toInt64(datas.Time)
	if !ok {
		return quote.Quote{}, fmt.Errorf("%w: time %v", ErrMissingField, datas.Time)
	}

	return quote.Quote{
		Source:    src.ID,
		Price:     price,
		Timestamp: time.UnixMilli(ms),
	}, nil
}

// Classify maps a Fetch error onto the status code shown for the source.
func Classify(err error) quote.StatusCode {
	switch {
	case errors.Is(err, ErrMissingField):
		return quote.StatusMissingField
	case errors.Is(err, ErrBadPayload):
		return quote.StatusBadPayload
	default:
		return quote.StatusRequestFailed
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

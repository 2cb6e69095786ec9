package httpapi

import (
	"context"
	"encoding/json"

	"goldwatch/internal/quote"
)

// Hub fans broadcast messages out to connected websocket clients. Slow
// clients are dropped rather than allowed to stall the broadcast.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 1024),
		clients:    make(map[*client]struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case b := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- b:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

func (h *Hub) PublishQuote(q quote.Quote) {
	b, err := json.Marshal(struct {
		Type string `json:"type"`
		quote.Quote
	}{Type: "quote", Quote: q})
	if err != nil {
		return
	}
	h.PublishJSON(b)
}

func (h *Hub) PublishJSON(b []byte) {
	select {
	case h.broadcast <- b:
	default:
	}
}

type client struct {
	send chan []byte
}

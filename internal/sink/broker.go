package sink

import (
	"fmt"
	"net/http"
)

// Broker is a single-channel SSE fan-out: every byte slice pushed into
// Notifier is written to all connected clients. Client registration and
// teardown run through channels so the broker needs no locks.
type Broker struct {
	Notifier       chan []byte
	newClients     chan chan []byte
	closingClients chan chan []byte
	clients        map[chan []byte]bool
}

// NewBroker creates a Broker and starts its dispatch loop.
func NewBroker() *Broker {
	b := &Broker{
		Notifier:       make(chan []byte, 8),
		newClients:     make(chan chan []byte),
		closingClients: make(chan chan []byte),
		clients:        make(map[chan []byte]bool),
	}
	go b.listen()
	return b
}

// ServeHTTP registers the request as an SSE client and streams events
// until the client disconnects.
func (b *Broker) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	flusher, ok := rw.(http.Flusher)
	if !ok {
		http.Error(rw, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "text/event-stream")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")
	rw.Header().Set("Access-Control-Allow-Origin", "*")

	messageChan := make(chan []byte, 1)
	b.newClients <- messageChan
	defer func() {
		b.closingClients <- messageChan
	}()

	done := req.Context().Done()
	for {
		select {
		case <-done:
			return
		case msg := <-messageChan:
			fmt.Fprintf(rw, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// listen dispatches published messages to all registered clients.
// Slow clients are skipped rather than blocking the broker.
func (b *Broker) listen() {
	for {
		select {
		case c := <-b.newClients:
			b.clients[c] = true
		case c := <-b.closingClients:
			delete(b.clients, c)
		case msg := <-b.Notifier:
			for c := range b.clients {
				select {
				case c <- msg:
				default:
				}
			}
		}
	}
}

package sink

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/mkrebs/padwatch/internal/model"
)

// Server is the HTTP sink: it keeps the most recent attribute snapshot
// and serves it three ways — JSON, rendered tile HTML, and an SSE stream
// of every publish.
//
// Routes:
//
//	GET /attributes — last attribute set as JSON
//	GET /tile       — last rendered tile as HTML
//	GET /events     — SSE stream, one event per publish
type Server struct {
	broker *Broker
	srv    *http.Server

	mu    sync.RWMutex
	attrs model.Attributes
	ready bool
}

// NewServer builds the HTTP sink listening on addr.
func NewServer(addr string) *Server {
	s := &Server{broker: NewBroker()}

	r := mux.NewRouter()
	r.HandleFunc("/attributes", s.handleAttributes).Methods(http.MethodGet)
	r.HandleFunc("/tile", s.handleTile).Methods(http.MethodGet)
	r.Handle("/events", s.broker).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Publish implements Sink: snapshot the attributes and push them to all
// connected SSE clients.
func (s *Server) Publish(a model.Attributes) error {
	s.mu.Lock()
	s.attrs = a
	s.ready = true
	s.mu.Unlock()

	msg, err := json.Marshal(a)
	if err != nil {
		return err
	}
	select {
	case s.broker.Notifier <- msg:
	default:
		// Broker backlog full; the next publish supersedes this one anyway.
	}
	return nil
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()
	slog.Info("dashboard endpoint listening", "addr", s.srv.Addr)

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleAttributes(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	a, ready := s.attrs, s.ready
	s.mu.RUnlock()

	if !ready {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	a, ready := s.attrs, s.ready
	s.mu.RUnlock()

	if !ready {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(a.Tile))
}

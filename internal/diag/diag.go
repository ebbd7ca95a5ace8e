// Package diag serves a small read-only HTTP surface for inspecting a
// running bridge: live handle counts and runtime worker statistics.
//
// The listener is off unless the cluster config names an address. It is
// purely observational — nothing here can mutate bridge state.
package diag

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cassgate/cassgate/internal/handle"
	"github.com/cassgate/cassgate/internal/logger"
)

// HandleSource exposes the registry counters the listener reports.
type HandleSource interface {
	Count() int
	CountByKind() map[handle.Kind]int
}

// WorkerSource exposes the runtime counters the listener reports.
type WorkerSource interface {
	Workers() int
	InFlight() int
	Completed() uint64
}

// Server is the diagnostics HTTP listener.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

// New builds a Server listening on addr.
func New(addr string, handles HandleSource, workers WorkerSource, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Global()
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           Handler(handles, workers),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.With("component", "diag"),
	}
}

// Handler builds the route tree. Split out so tests can drive it with
// httptest without opening a socket.
func Handler(handles HandleSource, workers WorkerSource) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/handles", func(w http.ResponseWriter, _ *http.Request) {
		byKind := make(map[string]int)
		for k, n := range handles.CountByKind() {
			byKind[k.String()] = n
		}
		writeJSON(w, map[string]any{
			"total":   handles.Count(),
			"by_kind": byKind,
		})
	})

	r.Get("/runtime", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"workers":   workers.Workers(),
			"in_flight": workers.InFlight(),
			"completed": workers.Completed(),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Start begins serving in the background. Listen errors other than a
// clean shutdown are logged, not returned — diagnostics must never take
// the bridge down.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Str("addr", s.srv.Addr).Msg("diagnostics listener failed")
		}
	}()
	s.log.Info().Str("addr", s.srv.Addr).Msg("diagnostics listener started")
}

// Stop shuts the listener down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

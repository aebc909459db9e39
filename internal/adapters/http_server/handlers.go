// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/app"
)

// StatusSource exposes a snapshot of the run in progress.
type StatusSource interface {
	Snapshot() app.Status
}

type Handlers struct{ Progress StatusSource }

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/status", h.getStatus)
}

func (h *Handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.Progress.Snapshot()); err != nil {
		log.Error().Err(err).Msg("write status response failed")
	}
}

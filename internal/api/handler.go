// Package api implements the ktsort HTTP API: batch scoring over JSON or
// line-pair text, optionally recorded in the result store.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ktsort/ktsort/internal/batch"
	"github.com/ktsort/ktsort/pkg/scoring"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is the result store as seen by the API.
type Store interface {
	batch.ResultStore
	Pinger
}

// Handler is the top-level API handler.
type Handler struct {
	runner *batch.Runner
	store  Store // nil when no result store is configured
	logger *zap.Logger
}

// NewHandler creates a new API handler. store may be nil.
func NewHandler(store Store, workers int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		runner: &batch.Runner{
			Scorer:  scoring.NewEngine(),
			Workers: workers,
			Logger:  logger,
		},
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/score", h.handleScoreJSON)
	mux.HandleFunc("POST /v1/score/text", h.handleScoreText)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			h.logger.Warn("Health check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Package admin exposes operational endpoints for the corpus index, guarded
// by a bearer token when a signing key is configured.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"companymatch/internal/match/ports"
	dErrors "companymatch/pkg/domain-errors"
	"companymatch/pkg/platform/httputil"
)

// Handler wires index administration endpoints to the search backend.
type Handler struct {
	backend ports.SearchBackend
	logger  *slog.Logger
}

// New constructs an admin handler.
func New(backend ports.SearchBackend, logger *slog.Logger) *Handler {
	return &Handler{backend: backend, logger: logger}
}

// Register mounts admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/stats", h.HandleStats)
	r.Post("/admin/reindex", h.HandleReindex)
}

// HandleStats handles GET /admin/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.Stats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read index stats", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}

// HandleReindex handles POST /admin/reindex: drop and recreate the corpus
// index. Documents must be re-ingested afterward.
func (h *Handler) HandleReindex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.backend.DeleteIndex(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete index", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to delete index"))
		return
	}
	if err := h.backend.EnsureIndex(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to recreate index", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to recreate index"))
		return
	}

	h.logger.InfoContext(ctx, "index recreated")
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

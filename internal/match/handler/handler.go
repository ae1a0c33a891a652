// Package handler wires the match endpoints to the match service. The
// transport layer stays thin: shape detection, delegation, envelopes.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"companymatch/internal/match/models"
	dErrors "companymatch/pkg/domain-errors"
	"companymatch/pkg/platform/httputil"
)

// Service defines the match operations the handler depends on.
type Service interface {
	MatchOne(ctx context.Context, rec models.InputRecord) ([]models.ScoredHit, error)
	MatchMany(ctx context.Context, records []models.InputRecord) ([]models.Match, error)
	MatchBatch(ctx context.Context, records []models.InputRecord, batchSize int) ([]models.Match, error)
	Search(ctx context.Context, rec models.InputRecord) (*models.SearchResult, error)
}

// Handler exposes the match API.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a match handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts match endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/match", h.HandleMatch)
	r.Post("/batch-match", h.HandleBatchMatch)
	r.Post("/search", h.HandleSearch)
}

// HandleMatch handles POST /match. The body is either one InputRecord, a
// bare array of records, or {"companies": [...]}; single records return a
// flat match response, arrays a per-record result list.
func (h *Handler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	raw, ok := httputil.DecodeRaw(w, r, h.logger)
	if !ok {
		return
	}

	records, single, err := parseMatchBody(raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if single != nil {
		matches, err := h.service.MatchOne(ctx, *single)
		if err != nil {
			h.writeServiceError(w, r, "match failed", err)
			return
		}
		h.logger.InfoContext(ctx, "matched record",
			"matches", len(matches),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		httputil.WriteJSON(w, http.StatusOK, SingleMatchResponse{
			Success:   true,
			Matches:   matches,
			BestMatch: bestOf(matches),
		})
		return
	}

	results, err := h.service.MatchMany(ctx, records)
	if err != nil {
		h.writeServiceError(w, r, "multi match failed", err)
		return
	}
	h.logger.InfoContext(ctx, "matched records",
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, MultiMatchResponse{
		Success: true,
		Results: results,
		Total:   len(results),
	})
}

// HandleBatchMatch handles POST /batch-match: {"companies": [...]} matched
// in concurrent chunks.
func (h *Handler) HandleBatchMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, ok := httputil.Decode[BatchMatchRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Companies == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "companies must be an array"))
		return
	}

	results, err := h.service.MatchBatch(ctx, req.Companies, req.BatchSize)
	if err != nil {
		h.writeServiceError(w, r, "batch match failed", err)
		return
	}
	h.logger.InfoContext(ctx, "batch matched records",
		"records", len(req.Companies),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, MultiMatchResponse{
		Success: true,
		Results: results,
		Total:   len(results),
	})
}

// HandleSearch handles POST /search: one combined backend call whose ranking
// is returned unchanged.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[models.InputRecord](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.Search(ctx, *req)
	if err != nil {
		h.writeServiceError(w, r, "search failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SearchResponse{
		Success:   true,
		Total:     result.Total,
		Companies: result.Hits,
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, "error", err)
	httputil.WriteError(w, err)
}

// parseMatchBody detects the /match request shape. Exactly one of the
// returns is populated: records for array input, single for one record.
func parseMatchBody(raw json.RawMessage) (records []models.InputRecord, single *models.InputRecord, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "empty request body")
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid input format")
		}
		return records, nil, nil
	}

	var envelope struct {
		Companies json.RawMessage `json:"companies"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid input format")
	}
	// A literal null companies value is not an array request; the body falls
	// through to single-record parsing like any other object.
	if envelope.Companies != nil && !bytes.Equal(envelope.Companies, []byte("null")) {
		if err := json.Unmarshal(envelope.Companies, &records); err != nil {
			return nil, nil, dErrors.New(dErrors.CodeBadRequest, "companies must be an array")
		}
		return records, nil, nil
	}

	var rec models.InputRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid input format")
	}
	return nil, &rec, nil
}

func bestOf(matches []models.ScoredHit) *models.ScoredHit {
	if len(matches) == 0 {
		return nil
	}
	best := matches[0]
	return &best
}

// Package ports defines shared interfaces for the match module.
// Interfaces are placed here when consumed by multiple services to avoid duplication.
package ports

import (
	"context"
	"time"

	"companymatch/internal/match/models"
)

// SearchBackend executes candidate queries against the company index. Every
// call is independently fallible; callers contain failures per query.
type SearchBackend interface {
	// Search runs one disjunctive query, returning hits capped at the query
	// size and sorted descending by the backend's relevance score.
	Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error)

	// BulkIndex stores records into the corpus index.
	BulkIndex(ctx context.Context, records []models.CompanyRecord) (*models.IndexSummary, error)

	// EnsureIndex creates the corpus index if it does not exist.
	EnsureIndex(ctx context.Context) error

	// DeleteIndex removes the corpus index. Missing index is not an error.
	DeleteIndex(ctx context.Context) error

	// Stats reports document count and size for the corpus index.
	Stats(ctx context.Context) (*models.IndexStats, error)

	// Health checks backend connectivity.
	Health(ctx context.Context) error
}

// ResultCache stores fused match results keyed by input record.
type ResultCache interface {
	// Get returns the cached matches for key, or (nil, false) on a miss.
	Get(ctx context.Context, key string) ([]models.ScoredHit, bool)

	// Set stores matches under key with the given TTL. Best effort.
	Set(ctx context.Context, key string, matches []models.ScoredHit, ttl time.Duration)
}

// EventPublisher emits match lifecycle events for downstream consumers.
type EventPublisher interface {
	// MatchCompleted publishes one finished match. Best effort; failures are
	// logged by the publisher, never surfaced to the match path.
	MatchCompleted(ctx context.Context, input models.InputRecord, best *models.ScoredHit, matchCount int)
}

// Package service orchestrates record matching: it fans candidate queries
// out to the search backend, contains per-query and per-record failures, and
// fuses the surviving hits into ranked results.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"companymatch/internal/match/cache"
	"companymatch/internal/match/fusion"
	"companymatch/internal/match/metrics"
	"companymatch/internal/match/models"
	"companymatch/internal/match/ports"
	"companymatch/internal/match/query"
)

// Service drives single, multi and batch matching against the backend. It is
// stateless across calls; the only shared state is the read-only weight table
// inside the builder and the injected collaborators.
type Service struct {
	backend ports.SearchBackend
	builder *query.Builder

	cacheStore ports.ResultCache
	events     ports.EventPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger

	batchSize   int
	resultLimit int
	cacheTTL    time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithCache(c ports.ResultCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheStore = c
		s.cacheTTL = ttl
	}
}

func WithEvents(p ports.EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBatchSize sets how many records one batch chunk matches concurrently.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithResultLimit caps how many fused candidates a record returns.
func WithResultLimit(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.resultLimit = k
		}
	}
}

// New constructs the match service.
func New(backend ports.SearchBackend, builder *query.Builder, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("search backend is required")
	}
	if builder == nil {
		return nil, fmt.Errorf("query builder is required")
	}

	svc := &Service{
		backend:     backend,
		builder:     builder,
		batchSize:   10,
		resultLimit: 10,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// MatchOne resolves a single record: build one query per signal, execute them
// concurrently, fuse by identity key, rank, truncate. Backend failures are
// contained per query; a record whose every query fails yields an empty
// result, not an error. The only error returned is context cancellation.
func (s *Service) MatchOne(ctx context.Context, rec models.InputRecord) ([]models.ScoredHit, error) {
	start := time.Now()

	cacheKey := cache.Key(rec)
	if s.cacheStore != nil {
		if hits, ok := s.cacheStore.Get(ctx, cacheKey); ok {
			s.metrics.IncrementCacheLookup("hit")
			return hits, nil
		}
		s.metrics.IncrementCacheLookup("miss")
	}

	queries := s.builder.FanOut(rec)
	if len(queries) == 0 {
		// Degenerate record: fall back to a neutral match-all query, which
		// returns size-capped noise rather than an error.
		queries = []models.SearchQuery{s.builder.Combined(rec)}
	}

	// Queries complete in any order; each goroutine writes only its own slot,
	// and fusion runs strictly after Wait. The max-score merge makes the
	// outcome independent of arrival order.
	hitsByQuery := make([][]models.ScoredHit, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			s.metrics.IncrementQuery(signalLabel(q))
			res, err := s.backend.Search(gctx, q)
			if err != nil {
				s.metrics.IncrementQueryFailure()
				if s.logger != nil {
					s.logger.WarnContext(gctx, "candidate query failed, continuing without it",
						"signal", signalLabel(q),
						"clauses", len(q.Clauses),
						"error", err,
					)
				}
				return nil
			}
			hitsByQuery[i] = res.Hits
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := fusion.Merge(s.resultLimit, hitsByQuery...)

	s.metrics.ObserveResultSize(len(matches))
	s.metrics.ObserveMatchLatency(time.Since(start))

	if s.cacheStore != nil {
		s.cacheStore.Set(ctx, cacheKey, matches, s.cacheTTL)
	}
	if s.events != nil {
		s.events.MatchCompleted(ctx, rec, bestOf(matches), len(matches))
	}

	return matches, nil
}

// MatchMany matches records sequentially. Output order mirrors input order;
// one record's failure is captured as an empty result for its position and
// never aborts the rest.
func (s *Service) MatchMany(ctx context.Context, records []models.InputRecord) ([]models.Match, error) {
	results := make([]models.Match, len(records))
	for i, rec := range records {
		matches, err := s.MatchOne(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			if s.logger != nil {
				s.logger.WarnContext(ctx, "record match failed", "position", i, "error", err)
			}
			matches = nil
		}
		if matches == nil {
			matches = []models.ScoredHit{}
		}
		results[i] = models.Match{Input: rec, Matches: matches, BestMatch: bestOf(matches)}
	}
	return results, nil
}

// MatchBatch partitions records into consecutive chunks of batchSize and
// matches each chunk's records concurrently, chunk after chunk. Output order
// mirrors input order regardless of intra-chunk completion order. A
// batchSize of zero or less uses the configured default.
func (s *Service) MatchBatch(ctx context.Context, records []models.InputRecord, batchSize int) ([]models.Match, error) {
	if batchSize <= 0 {
		batchSize = s.batchSize
	}
	s.metrics.ObserveBatchSize(len(records))

	results := make([]models.Match, len(records))
	for offset := 0; offset < len(records); offset += batchSize {
		end := min(offset+batchSize, len(records))

		g, gctx := errgroup.WithContext(ctx)
		for i := offset; i < end; i++ {
			g.Go(func() error {
				matches, err := s.MatchOne(gctx, records[i])
				if err != nil {
					// Only cancellation escapes MatchOne; everything else is
					// already contained. Record it and keep the slot empty.
					if s.logger != nil {
						s.logger.WarnContext(gctx, "record match failed in batch", "position", i, "error", err)
					}
					matches = nil
				}
				if matches == nil {
					matches = []models.ScoredHit{}
				}
				results[i] = models.Match{Input: records[i], Matches: matches, BestMatch: bestOf(matches)}
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Search is the combined mode used for ad-hoc search: all clauses go to the
// backend in one disjunctive call and its ranking is passed through
// unchanged, with no engine-side fusion.
func (s *Service) Search(ctx context.Context, rec models.InputRecord) (*models.SearchResult, error) {
	return s.backend.Search(ctx, s.builder.Combined(rec))
}

func bestOf(matches []models.ScoredHit) *models.ScoredHit {
	if len(matches) == 0 {
		return nil
	}
	best := matches[0]
	return &best
}

// signalLabel names the signal a fan-out query was derived from, for logs
// and metrics.
func signalLabel(q models.SearchQuery) string {
	if q.MatchAll || len(q.Clauses) == 0 {
		return "neutral"
	}
	switch q.Clauses[0].Target {
	case models.FieldDomain:
		return "domain"
	case models.FieldPhone:
		return "phone"
	case models.FieldNameCommercial, models.FieldNameLegal:
		return "name"
	default:
		return "social"
	}
}

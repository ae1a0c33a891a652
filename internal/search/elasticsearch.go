// Package search provides the backends that execute candidate queries
// against the company corpus: an Elasticsearch adapter for production and an
// in-memory implementation for tests and local development.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"companymatch/internal/match/models"
	"companymatch/internal/platform/config"
	dErrors "companymatch/pkg/domain-errors"
)

// ESBackend executes queries against an Elasticsearch companies index. The
// relevance formula is Elasticsearch's own; this adapter only translates
// candidate queries into the query DSL and hits back into scored records.
type ESBackend struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
}

// NewESBackend builds the adapter from configuration.
func NewESBackend(cfg config.Elasticsearch) (*ESBackend, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Node},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &ESBackend{client: client, index: cfg.Index, timeout: cfg.RequestTimeout}, nil
}

// NewESBackendFromClient wraps an existing client; used by integration tests
// that manage their own connection settings. Calls are not deadline-bounded.
func NewESBackendFromClient(client *elasticsearch.Client, index string) *ESBackend {
	return &ESBackend{client: client, index: index}
}

// reqCtx bounds one backend call by the configured request timeout, so a hung
// cluster connection fails the query instead of stalling the match.
func (b *ESBackend) reqCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// indexMapping mirrors the corpus schema: exact-matchable keyword fields for
// domain, phone and social URLs; analyzed text for names and address.
var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"domain":                map[string]any{"type": "keyword"},
			"companyCommercialName": map[string]any{"type": "text", "analyzer": "standard"},
			"companyLegalName":      map[string]any{"type": "text", "analyzer": "standard"},
			"phone":                 map[string]any{"type": "keyword"},
			"socialMedia":           map[string]any{"type": "keyword"},
			"address":               map[string]any{"type": "text"},
		},
	},
}

// Search executes one disjunctive query and returns the backend-ranked hits.
func (b *ESBackend) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	ctx, cancel := b.reqCtx(ctx)
	defer cancel()

	body, err := encodeBody(buildSearchBody(query))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode search query")
	}

	res, err := b.client.Search(
		b.client.Search.WithContext(ctx),
		b.client.Search.WithIndex(b.index),
		b.client.Search.WithBody(body),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "search request failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, dErrors.Newf(dErrors.CodeUnavailable, "search returned %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string               `json:"_id"`
				Score  float64              `json:"_score"`
				Source models.CompanyRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode search response")
	}

	hits := make([]models.ScoredHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		key := h.Source.Domain
		if key == "" {
			key = h.ID
		}
		hits = append(hits, models.ScoredHit{
			CompanyRecord: h.Source,
			Score:         h.Score,
			IdentityKey:   key,
		})
	}
	return &models.SearchResult{Total: parsed.Hits.Total.Value, Hits: hits}, nil
}

// BulkIndex stores records via the bulk API.
func (b *ESBackend) BulkIndex(ctx context.Context, records []models.CompanyRecord) (*models.IndexSummary, error) {
	ctx, cancel := b.reqCtx(ctx)
	defer cancel()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range records {
		if err := enc.Encode(map[string]any{"index": map[string]any{"_index": b.index}}); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode bulk action")
		}
		if err := enc.Encode(rec); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode bulk document")
		}
	}

	res, err := b.client.Bulk(&buf,
		b.client.Bulk.WithContext(ctx),
		b.client.Bulk.WithIndex(b.index),
		b.client.Bulk.WithRefresh("wait_for"),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "bulk index request failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, dErrors.Newf(dErrors.CodeUnavailable, "bulk index returned %s", res.Status())
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				Error json.RawMessage `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode bulk response")
	}

	summary := &models.IndexSummary{Indexed: len(records)}
	if parsed.Errors {
		for _, item := range parsed.Items {
			if len(item.Index.Error) > 0 {
				summary.Errors++
			}
		}
	}
	return summary, nil
}

// EnsureIndex creates the companies index with its mapping; an already
// existing index is fine.
func (b *ESBackend) EnsureIndex(ctx context.Context) error {
	ctx, cancel := b.reqCtx(ctx)
	defer cancel()

	body, err := encodeBody(indexMapping)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode index mapping")
	}

	res, err := b.client.Indices.Create(b.index,
		b.client.Indices.Create.WithContext(ctx),
		b.client.Indices.Create.WithBody(body),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "create index request failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		if strings.Contains(string(raw), "resource_already_exists_exception") {
			return nil
		}
		return dErrors.Newf(dErrors.CodeUnavailable, "create index returned %s", res.Status())
	}
	return nil
}

// DeleteIndex drops the companies index. A missing index is not an error.
func (b *ESBackend) DeleteIndex(ctx context.Context) error {
	ctx, cancel := b.reqCtx(ctx)
	defer cancel()

	res, err := b.client.Indices.Delete([]string{b.index},
		b.client.Indices.Delete.WithContext(ctx),
		b.client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "delete index request failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		return dErrors.Newf(dErrors.CodeUnavailable, "delete index returned %s", res.Status())
	}
	return nil
}

// Stats reports document count and stored size for the companies index.
func (b *ESBackend) Stats(ctx context.Context) (*models.IndexStats, error) {
	ctx, cancel := b.reqCtx(ctx)
	defer cancel()

	res, err := b.client.Indices.Stats(
		b.client.Indices.Stats.WithContext(ctx),
		b.client.Indices.Stats.WithIndex(b.index),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "stats request failed")
	}
	defer res.Body.Close()

	if res.IsError() {
		// Missing index reports as empty rather than failing.
		return &models.IndexStats{IndexName: b.index}, nil
	}

	var parsed struct {
		Indices map[string]struct {
			Total struct {
				Docs struct {
					Count int64 `json:"count"`
				} `json:"docs"`
				Store struct {
					SizeInBytes int64 `json:"size_in_bytes"`
				} `json:"store"`
			} `json:"total"`
		} `json:"indices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode stats response")
	}

	stats := &models.IndexStats{IndexName: b.index}
	if idx, ok := parsed.Indices[b.index]; ok {
		stats.DocumentsCount = idx.Total.Docs.Count
		stats.IndexSize = idx.Total.Store.SizeInBytes
	}
	return stats, nil
}

// Health pings the cluster.
func (b *ESBackend) Health(ctx context.Context) error {
	ctx, cancel := b.reqCtx(ctx)
	defer cancel()

	res, err := b.client.Ping(b.client.Ping.WithContext(ctx))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "elasticsearch ping failed")
	}
	defer res.Body.Close()
	if res.IsError() {
		return dErrors.Newf(dErrors.CodeUnavailable, "elasticsearch ping returned %s", res.Status())
	}
	return nil
}

// buildSearchBody translates a SearchQuery into the query DSL: every clause
// becomes an OR-ed should entry with its weight as boost, and an empty query
// degrades to match_all.
func buildSearchBody(query models.SearchQuery) map[string]any {
	size := query.Size
	if size <= 0 {
		size = 10
	}

	should := make([]any, 0, len(query.Clauses))
	for _, clause := range query.Clauses {
		should = append(should, clauseDSL(clause))
	}

	boolQuery := map[string]any{}
	if query.MatchAll || len(should) == 0 {
		boolQuery["must"] = []any{map[string]any{"match_all": map[string]any{}}}
	}
	if len(should) > 0 {
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	}

	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"size":  size,
		"sort":  []any{map[string]any{"_score": map[string]any{"order": "desc"}}},
	}
}

func clauseDSL(clause models.CandidateQuery) map[string]any {
	field := clause.Target.IndexField()

	switch clause.Mode {
	case models.ModeExact:
		if clause.Target == models.FieldSocialExact {
			// Set membership against the stored social URL list.
			return map[string]any{"terms": map[string]any{
				field:   []string{clause.Value},
				"boost": clause.Weight,
			}}
		}
		return map[string]any{"term": map[string]any{
			field: map[string]any{"value": clause.Value, "boost": clause.Weight},
		}}
	case models.ModeFuzzy:
		return map[string]any{"match": map[string]any{
			field: map[string]any{"query": clause.Value, "fuzziness": "AUTO", "boost": clause.Weight},
		}}
	default:
		return map[string]any{"wildcard": map[string]any{
			field: map[string]any{"value": "*" + clause.Value + "*", "boost": clause.Weight},
		}}
	}
}

func encodeBody(v any) (*bytes.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}

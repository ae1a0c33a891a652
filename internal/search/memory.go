package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"companymatch/internal/match/models"
)

// MemoryBackend is a full in-process implementation of the search backend
// port, used for tests and for running the server without Elasticsearch
// (MATCH_BACKEND=memory). Scoring mirrors the Elasticsearch adapter's clause
// semantics: a hit's score is the best weight among its matching clauses.
type MemoryBackend struct {
	mu      sync.RWMutex
	index   string
	entries []memoryEntry
}

type memoryEntry struct {
	key    string
	record models.CompanyRecord
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend(index string) *MemoryBackend {
	return &MemoryBackend{index: index}
}

// Search evaluates the disjunctive query against every stored record.
func (b *MemoryBackend) Search(_ context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := query.Size
	if size <= 0 {
		size = 10
	}

	var hits []models.ScoredHit
	for _, e := range b.entries {
		score, ok := scoreRecord(e.record, query)
		if !ok {
			continue
		}
		hits = append(hits, models.ScoredHit{
			CompanyRecord: e.record,
			Score:         score,
			IdentityKey:   e.key,
		})
	}

	// Stable keeps insertion order for equal scores, so results are
	// deterministic across runs.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	total := len(hits)
	if len(hits) > size {
		hits = hits[:size]
	}
	return &models.SearchResult{Total: total, Hits: hits}, nil
}

// BulkIndex appends records, assigning each a domain identity key or an
// opaque one when the domain is absent.
func (b *MemoryBackend) BulkIndex(_ context.Context, records []models.CompanyRecord) (*models.IndexSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, rec := range records {
		key := rec.Domain
		if key == "" {
			key = uuid.NewString()
		}
		b.entries = append(b.entries, memoryEntry{key: key, record: rec})
	}
	return &models.IndexSummary{Indexed: len(records)}, nil
}

// EnsureIndex is a no-op; the backend is always ready.
func (b *MemoryBackend) EnsureIndex(context.Context) error { return nil }

// DeleteIndex drops all stored records.
func (b *MemoryBackend) DeleteIndex(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
	return nil
}

// Stats reports the stored document count.
func (b *MemoryBackend) Stats(context.Context) (*models.IndexStats, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &models.IndexStats{
		IndexName:      b.index,
		DocumentsCount: int64(len(b.entries)),
	}, nil
}

// Health always succeeds.
func (b *MemoryBackend) Health(context.Context) error { return nil }

// scoreRecord returns the record's score for the query and whether it
// matched at all. Match-all queries score every record neutrally.
func scoreRecord(rec models.CompanyRecord, query models.SearchQuery) (float64, bool) {
	if query.MatchAll || len(query.Clauses) == 0 {
		return 1.0, true
	}

	var best float64
	matched := false
	for _, clause := range query.Clauses {
		s, ok := scoreClause(rec, clause)
		if ok && s > best {
			best = s
			matched = true
		}
	}
	return best, matched
}

func scoreClause(rec models.CompanyRecord, clause models.CandidateQuery) (float64, bool) {
	values := fieldValues(rec, clause.Target.IndexField())
	needle := strings.ToLower(clause.Value)

	switch clause.Mode {
	case models.ModeExact:
		for _, v := range values {
			if strings.ToLower(v) == needle {
				return clause.Weight, true
			}
		}
	case models.ModeSubstring:
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), needle) {
				return clause.Weight, true
			}
		}
	case models.ModeFuzzy:
		for _, v := range values {
			if coverage := fuzzyCoverage(v, clause.Value); coverage > 0 {
				return clause.Weight * coverage, true
			}
		}
	}
	return 0, false
}

func fieldValues(rec models.CompanyRecord, field string) []string {
	switch field {
	case "domain":
		return []string{rec.Domain}
	case "phone":
		return []string{rec.Phone}
	case "companyCommercialName":
		return []string{rec.CommercialName}
	case "companyLegalName":
		return []string{rec.LegalName}
	case "socialMedia":
		return rec.SocialMedia
	default:
		return nil
	}
}

// fuzzyCoverage reports which fraction of query tokens appear in the stored
// value within an edit-distance tolerance that scales with token length,
// mirroring Elasticsearch's AUTO fuzziness. Zero means no token matched.
func fuzzyCoverage(stored, queryValue string) float64 {
	queryTokens := strings.Fields(strings.ToLower(queryValue))
	storedTokens := strings.Fields(strings.ToLower(stored))
	if len(queryTokens) == 0 || len(storedTokens) == 0 {
		return 0
	}

	matched := 0
	for _, qt := range queryTokens {
		for _, st := range storedTokens {
			if levenshtein.ComputeDistance(qt, st) <= fuzzyTolerance(qt) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func fuzzyTolerance(token string) int {
	switch n := len(token); {
	case n < 3:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

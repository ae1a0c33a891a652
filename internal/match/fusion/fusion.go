// Package fusion merges hits from multiple candidate queries into one ranked
// list. The merge keeps the maximum score per identity key, so the outcome is
// independent of query completion order; ties keep the first-seen hit.
package fusion

import (
	"sort"

	"companymatch/internal/match/models"
)

// Merger accumulates hits keyed by identity. Not safe for concurrent use:
// callers feed it strictly after all queries for a record have completed.
type Merger struct {
	best  map[string]models.ScoredHit
	order map[string]int
	seen  int
}

// NewMerger returns an empty merger.
func NewMerger() *Merger {
	return &Merger{
		best:  make(map[string]models.ScoredHit),
		order: make(map[string]int),
	}
}

// Add folds one query's hits into the merger. A hit replaces the stored entry
// for its key only when its score is strictly higher; equal scores keep the
// earlier entry, making the tie-break explicit and deterministic.
func (m *Merger) Add(hits []models.ScoredHit) {
	for _, hit := range hits {
		key := hit.IdentityKey
		current, exists := m.best[key]
		if !exists {
			m.best[key] = hit
			m.order[key] = m.seen
			m.seen++
			continue
		}
		if hit.Score > current.Score {
			m.best[key] = hit
		}
	}
}

// Ranked returns the merged hits sorted descending by score, truncated to at
// most k entries. Identity keys are unique in the result. Equal scores order
// by first-seen to keep the output stable across runs.
func (m *Merger) Ranked(k int) []models.ScoredHit {
	out := make([]models.ScoredHit, 0, len(m.best))
	for _, hit := range m.best {
		out = append(out, hit)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return m.order[out[i].IdentityKey] < m.order[out[j].IdentityKey]
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Merge is the one-shot form: fuse the given hit lists and rank to k.
func Merge(k int, lists ...[]models.ScoredHit) []models.ScoredHit {
	m := NewMerger()
	for _, hits := range lists {
		m.Add(hits)
	}
	return m.Ranked(k)
}

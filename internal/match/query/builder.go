// Package query turns a normalized input record into weighted candidate
// queries. Fan-out mode emits one independent query per present signal, for
// the engine to fuse afterward; combined mode merges every clause into a
// single disjunctive query and leaves ranking to the backend.
package query

import (
	"companymatch/internal/match/models"
	"companymatch/internal/match/normalize"
	"companymatch/internal/match/scoring"
)

// Builder derives candidate queries from input records. It is pure and safe
// for concurrent use; the weight table is fixed at construction.
type Builder struct {
	weights  scoring.Config
	pageSize int
}

// New constructs a Builder with the given weight table and per-query hit cap.
func New(weights scoring.Config, pageSize int) *Builder {
	return &Builder{weights: weights, pageSize: pageSize}
}

// FanOut returns one independently executable query per present signal.
// A record with no populated field yields nil; callers fall back to a
// neutral match-all query.
func (b *Builder) FanOut(rec models.InputRecord) []models.SearchQuery {
	var queries []models.SearchQuery

	add := func(clauses []models.CandidateQuery) {
		if len(clauses) > 0 {
			queries = append(queries, models.SearchQuery{Clauses: clauses, Size: b.pageSize})
		}
	}

	if d := rec.PrimaryDomain(); d != "" {
		add(b.domainClauses(d))
	}
	if rec.Phone != "" {
		add(b.phoneClauses(rec.Phone))
	}
	if rec.Name != "" {
		add(b.nameClauses(rec.Name))
	}
	// Each social handle expands into its own full clause set; results are
	// reconciled by fusion, not by merging the handles up front.
	for _, h := range rec.SocialHandles() {
		add(b.socialClauses(h))
	}

	return queries
}

// Combined merges all applicable clauses into one disjunctive query. With no
// signals present it degrades to a match-all query capped at the page size.
func (b *Builder) Combined(rec models.InputRecord) models.SearchQuery {
	var clauses []models.CandidateQuery

	if d := rec.PrimaryDomain(); d != "" {
		clauses = append(clauses, b.domainClauses(d)...)
	}
	if rec.Phone != "" {
		clauses = append(clauses, b.phoneClauses(rec.Phone)...)
	}
	if rec.Name != "" {
		clauses = append(clauses, b.nameClauses(rec.Name)...)
	}
	for _, h := range rec.SocialHandles() {
		clauses = append(clauses, b.socialClauses(h)...)
	}

	return models.SearchQuery{
		Clauses:  clauses,
		MatchAll: len(clauses) == 0,
		Size:     b.pageSize,
	}
}

func (b *Builder) domainClauses(raw string) []models.CandidateQuery {
	d := normalize.Domain(raw)
	if d == "" {
		return nil
	}
	return []models.CandidateQuery{
		{Target: models.FieldDomain, Mode: models.ModeExact, Value: d, Weight: b.weights.DomainExact},
		{Target: models.FieldDomain, Mode: models.ModeSubstring, Value: d, Weight: b.weights.DomainWildcard},
	}
}

func (b *Builder) phoneClauses(raw string) []models.CandidateQuery {
	trimmed, digits := normalize.Phone(raw)
	if trimmed == "" {
		return nil
	}
	clauses := []models.CandidateQuery{
		{Target: models.FieldPhone, Mode: models.ModeSubstring, Value: trimmed, Weight: b.weights.Phone},
	}
	if digits != "" && digits != trimmed {
		clauses = append(clauses, models.CandidateQuery{
			Target: models.FieldPhone, Mode: models.ModeSubstring, Value: digits, Weight: b.weights.Phone,
		})
	}
	return clauses
}

func (b *Builder) nameClauses(name string) []models.CandidateQuery {
	return []models.CandidateQuery{
		{Target: models.FieldNameCommercial, Mode: models.ModeFuzzy, Value: name, Weight: b.weights.NameCommercial},
		{Target: models.FieldNameLegal, Mode: models.ModeFuzzy, Value: name, Weight: b.weights.NameLegal},
	}
}

func (b *Builder) socialClauses(handle string) []models.CandidateQuery {
	clauses := []models.CandidateQuery{
		{Target: models.FieldSocialExact, Mode: models.ModeExact, Value: handle, Weight: b.weights.SocialExact},
		{Target: models.FieldSocialWildcard, Mode: models.ModeSubstring, Value: handle, Weight: b.weights.SocialWildcard},
	}

	if clean := normalize.StripProtocol(handle); clean != "" && clean != handle {
		clauses = append(clauses, models.CandidateQuery{
			Target: models.FieldSocialClean, Mode: models.ModeSubstring, Value: clean, Weight: b.weights.SocialClean,
		})
	}

	if inferred := normalize.InferDomain(handle); inferred != "" {
		clauses = append(clauses,
			models.CandidateQuery{
				Target: models.FieldSocialDomainExact, Mode: models.ModeExact, Value: inferred, Weight: b.weights.InferredDomainExact,
			},
			models.CandidateQuery{
				Target: models.FieldSocialDomainWildcard, Mode: models.ModeSubstring, Value: inferred, Weight: b.weights.InferredDomainWildcard,
			},
		)
	}

	clauses = append(clauses, models.CandidateQuery{
		Target: models.FieldSocialFuzzy, Mode: models.ModeFuzzy, Value: handle, Weight: b.weights.SocialFuzzy,
	})

	return clauses
}

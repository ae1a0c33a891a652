package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"companymatch/internal/match/models"
)

// =============================================================================
// Match Handler Test Suite
// =============================================================================

type MatchHandlerSuite struct {
	suite.Suite
	service *stubService
	router  chi.Router
}

func TestMatchHandlerSuite(t *testing.T) {
	suite.Run(t, new(MatchHandlerSuite))
}

func (s *MatchHandlerSuite) SetupTest() {
	s.service = &stubService{}
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.DiscardHandler)).Register(s.router)
}

func (s *MatchHandlerSuite) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *MatchHandlerSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v))
}

// =============================================================================
// POST /match Tests
// =============================================================================

func (s *MatchHandlerSuite) TestHandleMatch() {
	s.Run("single record returns flat match response", func() {
		s.service.matchOne = func(_ context.Context, rec models.InputRecord) ([]models.ScoredHit, error) {
			s.Equal("acme.com", rec.Domain)
			return []models.ScoredHit{scored("acme.com", 8)}, nil
		}

		rec := s.post("/match", `{"domain":"acme.com"}`)
		s.Equal(http.StatusOK, rec.Code)

		var resp SingleMatchResponse
		s.decode(rec, &resp)
		s.True(resp.Success)
		s.Require().Len(resp.Matches, 1)
		s.Require().NotNil(resp.BestMatch)
		s.Equal("acme.com", resp.BestMatch.Domain)
	})

	s.Run("no-match single record returns empty array and null best match", func() {
		s.service.matchOne = func(context.Context, models.InputRecord) ([]models.ScoredHit, error) {
			return []models.ScoredHit{}, nil
		}

		rec := s.post("/match", `{"domain":"missing.example"}`)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"success":true,"matches":[],"bestMatch":null}`, rec.Body.String())
	})

	s.Run("bare array returns per-record results", func() {
		s.service.matchMany = func(_ context.Context, records []models.InputRecord) ([]models.Match, error) {
			s.Len(records, 2)
			return matchesFor(records), nil
		}

		rec := s.post("/match", `[{"domain":"a.com"},{"domain":"b.com"}]`)
		s.Equal(http.StatusOK, rec.Code)

		var resp MultiMatchResponse
		s.decode(rec, &resp)
		s.True(resp.Success)
		s.Equal(2, resp.Total)
		s.Require().Len(resp.Results, 2)
		s.Equal("a.com", resp.Results[0].Input.Domain)
		s.Equal("b.com", resp.Results[1].Input.Domain)
	})

	s.Run("companies envelope behaves like a bare array", func() {
		s.service.matchMany = func(_ context.Context, records []models.InputRecord) ([]models.Match, error) {
			return matchesFor(records), nil
		}

		rec := s.post("/match", `{"companies":[{"domain":"a.com"}]}`)
		s.Equal(http.StatusOK, rec.Code)

		var resp MultiMatchResponse
		s.decode(rec, &resp)
		s.Equal(1, resp.Total)
	})

	s.Run("empty array is valid and returns zero results", func() {
		s.service.matchMany = func(_ context.Context, records []models.InputRecord) ([]models.Match, error) {
			return matchesFor(records), nil
		}

		rec := s.post("/match", `[]`)
		s.Equal(http.StatusOK, rec.Code)

		var resp MultiMatchResponse
		s.decode(rec, &resp)
		s.True(resp.Success)
		s.Equal(0, resp.Total)
	})

	s.Run("null companies value is matched as a single record", func() {
		s.service.matchOne = func(_ context.Context, rec models.InputRecord) ([]models.ScoredHit, error) {
			s.Equal(models.InputRecord{}, rec)
			return []models.ScoredHit{}, nil
		}

		rec := s.post("/match", `{"companies":null}`)
		s.Equal(http.StatusOK, rec.Code)

		var resp SingleMatchResponse
		s.decode(rec, &resp)
		s.True(resp.Success)
		s.Empty(resp.Matches)
	})

	s.Run("non-array companies value is rejected", func() {
		rec := s.post("/match", `{"companies":"acme"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "companies must be an array")
	})

	s.Run("malformed JSON is rejected", func() {
		rec := s.post("/match", `{"domain":`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("empty body is rejected", func() {
		rec := s.post("/match", ``)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

// =============================================================================
// POST /batch-match Tests
// =============================================================================

func (s *MatchHandlerSuite) TestHandleBatchMatch() {
	s.Run("forwards companies and batch size to the service", func() {
		s.service.matchBatch = func(_ context.Context, records []models.InputRecord, batchSize int) ([]models.Match, error) {
			s.Len(records, 3)
			s.Equal(2, batchSize)
			return matchesFor(records), nil
		}

		rec := s.post("/batch-match", `{"companies":[{"domain":"a.com"},{"domain":"b.com"},{"domain":"c.com"}],"batchSize":2}`)
		s.Equal(http.StatusOK, rec.Code)

		var resp MultiMatchResponse
		s.decode(rec, &resp)
		s.True(resp.Success)
		s.Equal(3, resp.Total)
	})

	s.Run("missing companies field is rejected", func() {
		rec := s.post("/batch-match", `{"batchSize":5}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "companies must be an array")
	})

	s.Run("malformed body is rejected", func() {
		rec := s.post("/batch-match", `{"companies":`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

// =============================================================================
// POST /search Tests
// =============================================================================

func (s *MatchHandlerSuite) TestHandleSearch() {
	s.Run("passes the backend ranking through unchanged", func() {
		s.service.search = func(_ context.Context, rec models.InputRecord) (*models.SearchResult, error) {
			s.Equal("Acme", rec.Name)
			return &models.SearchResult{
				Total: 2,
				Hits:  []models.ScoredHit{scored("acme.com", 8), scored("acme-tools.com", 2)},
			}, nil
		}

		rec := s.post("/search", `{"name":"Acme"}`)
		s.Equal(http.StatusOK, rec.Code)

		var resp SearchResponse
		s.decode(rec, &resp)
		s.True(resp.Success)
		s.Equal(2, resp.Total)
		s.Require().Len(resp.Companies, 2)
		s.Equal("acme.com", resp.Companies[0].Domain)
	})

	s.Run("malformed body is rejected", func() {
		rec := s.post("/search", `not json`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

// =============================================================================
// Stubs
// =============================================================================

type stubService struct {
	matchOne   func(context.Context, models.InputRecord) ([]models.ScoredHit, error)
	matchMany  func(context.Context, []models.InputRecord) ([]models.Match, error)
	matchBatch func(context.Context, []models.InputRecord, int) ([]models.Match, error)
	search     func(context.Context, models.InputRecord) (*models.SearchResult, error)
}

func (s *stubService) MatchOne(ctx context.Context, rec models.InputRecord) ([]models.ScoredHit, error) {
	return s.matchOne(ctx, rec)
}

func (s *stubService) MatchMany(ctx context.Context, records []models.InputRecord) ([]models.Match, error) {
	return s.matchMany(ctx, records)
}

func (s *stubService) MatchBatch(ctx context.Context, records []models.InputRecord, batchSize int) ([]models.Match, error) {
	return s.matchBatch(ctx, records, batchSize)
}

func (s *stubService) Search(ctx context.Context, rec models.InputRecord) (*models.SearchResult, error) {
	return s.search(ctx, rec)
}

func scored(domain string, score float64) models.ScoredHit {
	return models.ScoredHit{
		CompanyRecord: models.CompanyRecord{Domain: domain},
		Score:         score,
		IdentityKey:   domain,
	}
}

func matchesFor(records []models.InputRecord) []models.Match {
	out := make([]models.Match, len(records))
	for i, rec := range records {
		hit := scored(rec.Domain, 8)
		out[i] = models.Match{Input: rec, Matches: []models.ScoredHit{hit}, BestMatch: &hit}
	}
	return out
}

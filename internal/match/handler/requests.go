package handler

import "companymatch/internal/match/models"

// BatchMatchRequest is the POST /batch-match body. BatchSize optionally
// overrides the configured chunk size.
type BatchMatchRequest struct {
	Companies []models.InputRecord `json:"companies"`
	BatchSize int                  `json:"batchSize,omitempty"`
}

// SingleMatchResponse is returned for a one-record POST /match.
type SingleMatchResponse struct {
	Success   bool               `json:"success"`
	Matches   []models.ScoredHit `json:"matches"`
	BestMatch *models.ScoredHit  `json:"bestMatch"`
}

// MultiMatchResponse is returned for array and batch matching.
type MultiMatchResponse struct {
	Success bool           `json:"success"`
	Results []models.Match `json:"results"`
	Total   int            `json:"total"`
}

// SearchResponse is returned by POST /search with the backend's own ranking.
type SearchResponse struct {
	Success   bool               `json:"success"`
	Total     int                `json:"total"`
	Companies []models.ScoredHit `json:"companies"`
}

package admin

import "companymatch/internal/match/models"

// StatsResponse is the GET /admin/stats envelope.
type StatsResponse struct {
	Success bool               `json:"success"`
	Stats   *models.IndexStats `json:"stats"`
}

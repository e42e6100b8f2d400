// internal/workers/search/list-searches/models.go
package listsearches

import "recruit-workers/internal/models"

const (
	KindHistory = "history"
	KindSaved   = "saved"
)

type Input struct {
	UserID string `json:"userId"`
	Kind   string `json:"kind"`
	Limit  int    `json:"limit,omitempty"`
}

type Output struct {
	Kind    string                      `json:"kind"`
	History []models.SearchHistoryEntry `json:"history,omitempty"`
	Saved   []models.SavedSearch        `json:"saved,omitempty"`
	Count   int                         `json:"count"`
}

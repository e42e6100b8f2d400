// internal/workers/search/execute-search/models.go
package executesearch

import (
	"encoding/json"

	"recruit-workers/internal/models"
)

type Input struct {
	UserID  string          `json:"userId"`
	Query   string          `json:"query"`
	Filters json.RawMessage `json:"filters,omitempty"`
	Limit   int             `json:"limit,omitempty"`
}

type Output struct {
	Results           []models.SearchResult `json:"results"`
	ResultCount       int                   `json:"resultCount"`
	Target            models.SearchTarget   `json:"target,omitempty"`
	HistoryDispatched bool                  `json:"historyDispatched"`
	// Skipped is set for blank queries, which run no search.
	Skipped bool `json:"skipped,omitempty"`
}

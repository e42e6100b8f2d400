// internal/workers/search/save-search/models.go
package savesearch

import "encoding/json"

type Input struct {
	UserID         string          `json:"userId"`
	Name           string          `json:"name"`
	Query          string          `json:"query"`
	Filters        json.RawMessage `json:"filters,omitempty"`
	AlertFrequency *string         `json:"alertFrequency,omitempty"`
}

type Output struct {
	Saved         bool   `json:"saved"`
	SavedSearchID string `json:"savedSearchId,omitempty"`
	AlertNotified bool   `json:"alertNotified,omitempty"`
}

// internal/workers/voice/voice-search/models.go
package voicesearch

import (
	"encoding/json"

	executesearch "recruit-workers/internal/workers/search/execute-search"
)

type Input struct {
	UserID   string          `json:"userId"`
	AudioURL string          `json:"audioUrl"`
	Language string          `json:"language,omitempty"`
	Filters  json.RawMessage `json:"filters,omitempty"`
	Limit    int             `json:"limit,omitempty"`
}

type Output struct {
	Transcript string                `json:"transcript"`
	Search     *executesearch.Output `json:"search"`
}

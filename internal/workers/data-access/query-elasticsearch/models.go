// internal/workers/data-access/query-elasticsearch/models.go
package queryelasticsearch

import "recruit-workers/internal/models"

type Input struct {
	Target     string                `json:"target"`
	Query      string                `json:"query"`
	Filters    *models.SearchFilters `json:"filters,omitempty"`
	Pagination Pagination            `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Results   []models.SearchResult `json:"results"`
	TotalHits int64                 `json:"totalHits"`
	MaxScore  float64               `json:"maxScore"`
	Took      int64                 `json:"took"` // milliseconds
}

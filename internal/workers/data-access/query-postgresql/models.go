// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "recruit-workers/internal/models"

type Input struct {
	QueryType string                `json:"queryType"`
	UserID    string                `json:"userId,omitempty"`
	CompanyID string                `json:"companyId,omitempty"`
	Query     string                `json:"query,omitempty"`
	Filters   *models.SearchFilters `json:"filters,omitempty"`
	Limit     int                   `json:"limit,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

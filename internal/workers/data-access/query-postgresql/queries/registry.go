// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recruit-workers/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeJobsByCompany:         JobsByCompany,
	models.QueryTypeApplicationsByCompany: ApplicationsByCompany,
	models.QueryTypeCandidates:            Candidates,
	models.QueryTypeProfile:               Profile,
	models.QueryTypeSearchHistory:         SearchHistory,
	models.QueryTypeSavedSearches:         SavedSearches,
	models.QueryTypeSearchCandidates:      SearchCandidates,
	models.QueryTypeSearchJobs:            SearchJobs,
}

func Execute(ctx context.Context, db *sql.DB, queryType models.QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, db, params)
}

func stringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	return v, nil
}

func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return int(v)
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return def
}

func filtersParam(params map[string]interface{}) models.SearchFilters {
	switch v := params["filters"].(type) {
	case models.SearchFilters:
		return v
	case *models.SearchFilters:
		if v != nil {
			return *v
		}
	}
	return models.SearchFilters{}
}

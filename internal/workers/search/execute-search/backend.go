package executesearch

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"recruit-workers/internal/common/config"
	"recruit-workers/internal/models"
	esqueries "recruit-workers/internal/workers/data-access/query-elasticsearch/queries"
	"recruit-workers/internal/workers/data-access/query-postgresql/queries"
)

// Backend runs a role-targeted search.
type Backend interface {
	Name() string
	Search(ctx context.Context, target models.SearchTarget, query string, filters models.SearchFilters, limit int) ([]models.SearchResult, error)
}

type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Name() string { return config.BackendPostgres }

func (b *PostgresBackend) Search(ctx context.Context, target models.SearchTarget, query string, filters models.SearchFilters, limit int) ([]models.SearchResult, error) {
	queryType := models.QueryTypeSearchJobs
	if target == models.SearchTargetCandidates {
		queryType = models.QueryTypeSearchCandidates
	}

	data, _, _, err := queries.Execute(ctx, b.db, queryType, map[string]interface{}{
		"query":   query,
		"filters": filters,
		"limit":   limit,
	})
	if err != nil {
		return nil, err
	}
	results, ok := data.([]models.SearchResult)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", data)
	}
	return results, nil
}

type ElasticsearchBackend struct {
	client          *elasticsearch.Client
	jobsIndex       string
	candidatesIndex string
}

func NewElasticsearchBackend(client *elasticsearch.Client, jobsIndex, candidatesIndex string) *ElasticsearchBackend {
	return &ElasticsearchBackend{
		client:          client,
		jobsIndex:       jobsIndex,
		candidatesIndex: candidatesIndex,
	}
}

func (b *ElasticsearchBackend) Name() string { return config.BackendElasticsearch }

func (b *ElasticsearchBackend) Search(ctx context.Context, target models.SearchTarget, query string, filters models.SearchFilters, limit int) ([]models.SearchResult, error) {
	index := b.jobsIndex
	if target == models.SearchTargetCandidates {
		index = b.candidatesIndex
	}

	result, err := esqueries.Execute(ctx, b.client, esqueries.SearchQuery{
		Index:   index,
		Target:  target,
		Text:    query,
		Filters: filters,
		Size:    limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// internal/workers/data-access/query-elasticsearch/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"recruit-workers/internal/models"
)

var (
	ErrIndexNotFound = errors.New("index not found")
	// ErrTransport marks failures reaching the cluster, as opposed to query errors.
	ErrTransport = errors.New("elasticsearch transport error")
)

type QueryResult struct {
	Results   []models.SearchResult
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, sq SearchQuery) (*QueryResult, error) {
	req, err := BuildQuery(sq)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, sq.Index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		result, err := decodeHit(sq.Target, hit.ID, hit.Source)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	maxScore := 0.0
	if r.Hits.MaxScore != nil {
		maxScore = *r.Hits.MaxScore
	}

	return &QueryResult{
		Results:   results,
		TotalHits: r.Hits.Total.Value,
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}

// decodeHit maps a document onto the target's model; the document id wins
// over a missing id field in the source.
func decodeHit(target models.SearchTarget, id string, source json.RawMessage) (models.SearchResult, error) {
	switch target {
	case models.SearchTargetJobs:
		var job models.Job
		if err := json.Unmarshal(source, &job); err != nil {
			return models.SearchResult{}, fmt.Errorf("decode job %s: %w", id, err)
		}
		if job.ID == "" {
			job.ID = id
		}
		return models.SearchResult{Job: &job}, nil
	default:
		var candidate models.Candidate
		if err := json.Unmarshal(source, &candidate); err != nil {
			return models.SearchResult{}, fmt.Errorf("decode candidate %s: %w", id, err)
		}
		if candidate.ID == "" {
			candidate.ID = id
		}
		return models.SearchResult{Candidate: &candidate}, nil
	}
}

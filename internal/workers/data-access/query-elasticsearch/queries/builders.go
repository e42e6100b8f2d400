package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"recruit-workers/internal/models"
)

var (
	ErrUnknownTarget = errors.New("unknown search target")
	ErrMissingIndex  = errors.New("index name is required")
	ErrMissingQuery  = errors.New("query text is required")
)

const (
	DefaultSize = 50
	MaxSize     = 100
)

// SearchQuery describes one search against the jobs or candidates index.
type SearchQuery struct {
	Index   string
	Target  models.SearchTarget
	Text    string
	Filters models.SearchFilters
	From    int
	Size    int
}

func (sq SearchQuery) size() int {
	switch {
	case sq.Size <= 0:
		return DefaultSize
	case sq.Size > MaxSize:
		return MaxSize
	default:
		return sq.Size
	}
}

// BuildQuery builds an Elasticsearch search request for the query's target.
func BuildQuery(sq SearchQuery) (*esapi.SearchRequest, error) {
	body, err := BuildBody(sq)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	from, size := sq.From, sq.size()
	return &esapi.SearchRequest{
		Index: []string{sq.Index},
		Body:  bytes.NewReader(raw),
		From:  &from,
		Size:  &size,
	}, nil
}

// BuildBody returns the query DSL for the search.
func BuildBody(sq SearchQuery) (map[string]interface{}, error) {
	if sq.Index == "" {
		return nil, ErrMissingIndex
	}
	if sq.Text == "" {
		return nil, ErrMissingQuery
	}

	switch sq.Target {
	case models.SearchTargetJobs:
		return buildJobsQuery(sq), nil
	case models.SearchTargetCandidates:
		return buildCandidatesQuery(sq), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, sq.Target)
	}
}

func buildJobsQuery(sq SearchQuery) map[string]interface{} {
	must := []interface{}{
		multiMatch(sq.Text, "title^3", "description^2", "skills^2"),
	}
	filter := []interface{}{
		term("status", string(models.JobStatusActive)),
	}

	f := sq.Filters
	if f.Location != "" {
		filter = append(filter, match("location", f.Location))
	}
	if f.Remote {
		filter = append(filter, term("remoteOk", true))
	}
	if r, ok := models.SalaryRange(f.Salary); ok {
		// overlap: the job's band reaches into the bracket
		filter = append(filter, rangeOrMissing("salaryMax", "gte", r.Min))
		if r.Max != nil {
			filter = append(filter, rangeOrMissing("salaryMin", "lte", *r.Max))
		}
	}
	filter = append(filter, skillTerms(f.Skills)...)

	return boolQuery(must, filter, "createdAt")
}

func buildCandidatesQuery(sq SearchQuery) map[string]interface{} {
	must := []interface{}{
		multiMatch(sq.Text, "summary^2", "skills^3", "profile.firstName", "profile.lastName"),
	}
	filter := []interface{}{}

	f := sq.Filters
	if f.Location != "" {
		filter = append(filter, match("profile.location", f.Location))
	}
	if r, ok := models.ExperienceRange(f.Experience); ok {
		filter = append(filter, between("experienceYears", r))
	}
	if r, ok := models.SalaryRange(f.Salary); ok {
		filter = append(filter, between("salaryExpectation", r))
	}
	filter = append(filter, skillTerms(f.Skills)...)

	return boolQuery(must, filter, "")
}

func boolQuery(must, filter []interface{}, sortField string) map[string]interface{} {
	b := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		b["filter"] = filter
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{"bool": b},
	}
	if sortField != "" {
		query["sort"] = []interface{}{
			"_score",
			map[string]interface{}{sortField: "desc"},
		}
	}
	return query
}

func multiMatch(text string, fields ...string) map[string]interface{} {
	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  text,
			"fields": fields,
			"type":   "best_fields",
		},
	}
}

func term(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{field: value},
	}
}

func match(field, value string) map[string]interface{} {
	return map[string]interface{}{
		"match": map[string]interface{}{field: value},
	}
}

func between(field string, r models.Range) map[string]interface{} {
	bounds := map[string]interface{}{"gte": r.Min}
	if r.Max != nil {
		bounds["lte"] = *r.Max
	}
	return map[string]interface{}{
		"range": map[string]interface{}{field: bounds},
	}
}

// rangeOrMissing matches documents where the field satisfies op or is absent.
func rangeOrMissing(field, op string, value int) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should": []interface{}{
				map[string]interface{}{
					"range": map[string]interface{}{field: map[string]interface{}{op: value}},
				},
				map[string]interface{}{
					"bool": map[string]interface{}{
						"must_not": map[string]interface{}{
							"exists": map[string]interface{}{"field": field},
						},
					},
				},
			},
			"minimum_should_match": 1,
		},
	}
}

// skillTerms requires every listed skill.
func skillTerms(skills []string) []interface{} {
	clauses := make([]interface{}, 0, len(skills))
	for _, s := range skills {
		clauses = append(clauses, term("skills", s))
	}
	return clauses
}

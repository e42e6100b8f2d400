// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeJobsByCompany         QueryType = "jobs_by_company"
	QueryTypeApplicationsByCompany QueryType = "applications_by_company"
	QueryTypeCandidates            QueryType = "candidates"
	QueryTypeProfile               QueryType = "profile"
	QueryTypeSearchHistory         QueryType = "search_history"
	QueryTypeSavedSearches         QueryType = "saved_searches"
	QueryTypeSearchCandidates      QueryType = "search_candidates"
	QueryTypeSearchJobs            QueryType = "search_jobs"
)

// internal/models/search.go
package models

import "time"

// SearchFilters narrows a search. Experience and salary are bracket labels
// such as "3-5" or "50k-100k"; empty values do not filter.
type SearchFilters struct {
	Location   string   `json:"location"`
	Experience string   `json:"experience"`
	Salary     string   `json:"salary"`
	Remote     bool     `json:"remote"`
	Skills     []string `json:"skills,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (f SearchFilters) IsEmpty() bool {
	return f.Location == "" && f.Experience == "" && f.Salary == "" && !f.Remote && len(f.Skills) == 0
}

// SearchTarget is the entity a search runs against, derived from the role.
type SearchTarget string

const (
	SearchTargetCandidates SearchTarget = "candidates"
	SearchTargetJobs       SearchTarget = "jobs"
)

// TargetFor returns candidates for recruiters and jobs for everyone else.
func TargetFor(role Role) SearchTarget {
	if IsRecruiter(role) {
		return SearchTargetCandidates
	}
	return SearchTargetJobs
}

type SearchHistoryEntry struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Query        string        `json:"query"`
	Filters      SearchFilters `json:"filters"`
	ResultsCount *int          `json:"resultsCount,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type SavedSearch struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	Name           string        `json:"name"`
	Query          string        `json:"query"`
	Filters        SearchFilters `json:"filters"`
	AlertFrequency *string       `json:"alertFrequency,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// SearchResult is one hit; exactly one of Candidate or Job is set.
type SearchResult struct {
	Candidate *Candidate `json:"candidate,omitempty"`
	Job       *Job       `json:"job,omitempty"`
}

// Range is an inclusive numeric bracket; a nil Max is open-ended.
type Range struct {
	Min int
	Max *int
}

func bounded(min, max int) Range { return Range{Min: min, Max: &max} }

var experienceBrackets = map[string]Range{
	"0-2":  bounded(0, 2),
	"3-5":  bounded(3, 5),
	"6-10": bounded(6, 10),
	"10+":  {Min: 10},
}

var salaryBrackets = map[string]Range{
	"0-50k":     bounded(0, 50000),
	"50k-100k":  bounded(50000, 100000),
	"100k-150k": bounded(100000, 150000),
	"150k+":     {Min: 150000},
}

// ExperienceRange resolves an experience bracket label to years.
func ExperienceRange(bracket string) (Range, bool) {
	r, ok := experienceBrackets[bracket]
	return r, ok
}

// SalaryRange resolves a salary bracket label to an annual amount.
func SalaryRange(bracket string) (Range, bool) {
	r, ok := salaryBrackets[bracket]
	return r, ok
}

package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"recruit-workers/internal/models"
)

const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 100
)

// whereBuilder accumulates AND-ed predicates with positional arguments.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

// arg appends a value and returns its placeholder.
func (w *whereBuilder) arg(v interface{}) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) add(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, "\n		  AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching text anywhere.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// skillArray encodes a single skill as a jsonb array for @> containment.
func skillArray(skill string) string {
	raw, _ := json.Marshal([]string{skill})
	return string(raw)
}

func searchLimit(params map[string]interface{}) int {
	limit := intParam(params, "limit", DefaultSearchLimit)
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	return limit
}

// SearchCandidates matches candidates whose summary contains the query or
// whose skills include it, joined with profile name, email and location.
func SearchCandidates(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	query, err := stringParam(params, "query")
	if err != nil {
		return nil, 0, 0, err
	}
	filters := filtersParam(params)

	w := &whereBuilder{}
	w.add(fmt.Sprintf("(c.summary ILIKE %s OR c.skills @> %s::jsonb)",
		w.arg(containsPattern(query)), w.arg(skillArray(query))))

	if filters.Location != "" {
		w.add("p.location ILIKE " + w.arg(containsPattern(filters.Location)))
	}
	if r, ok := models.ExperienceRange(filters.Experience); ok {
		w.add("c.experience_years >= " + w.arg(r.Min))
		if r.Max != nil {
			w.add("c.experience_years <= " + w.arg(*r.Max))
		}
	}
	if r, ok := models.SalaryRange(filters.Salary); ok {
		w.add("c.salary_expectation >= " + w.arg(r.Min))
		if r.Max != nil {
			w.add("c.salary_expectation <= " + w.arg(*r.Max))
		}
	}
	if len(filters.Skills) > 0 {
		w.add("c.skills ?& " + w.arg(pq.Array(filters.Skills)))
	}
	limit := w.arg(searchLimit(params))

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT `+candidateColumns+`,
		       p.id, p.first_name, p.last_name, p.email, p.location
		FROM candidates c
		JOIN profiles p ON p.id = c.id
		`+w.String()+`
		ORDER BY c.created_at DESC
		LIMIT `+limit, w.args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		var (
			p                          models.Profile
			first, last, email, locVal sql.NullString
		)
		c, err := scanCandidate(rows, &p.ID, &first, &last, &email, &locVal)
		if err != nil {
			return nil, 0, 0, err
		}
		p.FirstName = first.String
		p.LastName = last.String
		p.Email = email.String
		p.Location = nullString(locVal)
		p.Role = models.RoleCandidate
		c.Profile = &p
		results = append(results, models.SearchResult{Candidate: &c})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return results, len(results), time.Since(start).Milliseconds(), nil
}

// SearchJobs matches active jobs whose title or description contains the
// query or whose skills include it, joined with the company name and logo.
func SearchJobs(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	query, err := stringParam(params, "query")
	if err != nil {
		return nil, 0, 0, err
	}
	filters := filtersParam(params)

	w := &whereBuilder{}
	w.add("j.status = " + w.arg(string(models.JobStatusActive)))
	pattern := w.arg(containsPattern(query))
	w.add(fmt.Sprintf("(j.title ILIKE %s OR j.description ILIKE %s OR j.skills @> %s::jsonb)",
		pattern, pattern, w.arg(skillArray(query))))

	if filters.Location != "" {
		w.add("j.location ILIKE " + w.arg(containsPattern(filters.Location)))
	}
	if filters.Remote {
		w.add("j.remote_ok = TRUE")
	}
	if r, ok := models.SalaryRange(filters.Salary); ok {
		w.add("(j.salary_max IS NULL OR j.salary_max >= " + w.arg(r.Min) + ")")
		if r.Max != nil {
			w.add("(j.salary_min IS NULL OR j.salary_min <= " + w.arg(*r.Max) + ")")
		}
	}
	if len(filters.Skills) > 0 {
		w.add("j.skills ?& " + w.arg(pq.Array(filters.Skills)))
	}
	limit := w.arg(searchLimit(params))

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT `+jobColumns+`,
		       co.id, co.name, co.logo_url
		FROM jobs j
		LEFT JOIN companies co ON co.id = j.company_id
		`+w.String()+`
		ORDER BY j.created_at DESC
		LIMIT `+limit, w.args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		var coID, coName, coLogo sql.NullString
		job, err := scanJob(rows, &coID, &coName, &coLogo)
		if err != nil {
			return nil, 0, 0, err
		}
		if coID.Valid {
			job.Company = &models.Company{ID: coID.String, Name: coName.String, LogoURL: nullString(coLogo)}
		}
		results = append(results, models.SearchResult{Job: &job})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return results, len(results), time.Since(start).Milliseconds(), nil
}

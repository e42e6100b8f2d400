package queries

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"recruit-workers/internal/models"
)

// decodeSkills reads a jsonb array of strings. NULL yields an empty slice.
func decodeSkills(raw []byte) ([]string, error) {
	skills := []string{}
	if len(raw) == 0 {
		return skills, nil
	}
	if err := json.Unmarshal(raw, &skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return skills, nil
}

func decodeFilters(raw []byte) (models.SearchFilters, error) {
	var f models.SearchFilters
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("decode filters: %w", err)
	}
	return f, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const jobColumns = `j.id, j.company_id, j.title, j.description, j.location, j.remote_ok,
		       j.salary_min, j.salary_max, j.skills, j.status, j.created_at`

func scanJob(row rowScanner, extra ...interface{}) (models.Job, error) {
	var (
		job                  models.Job
		location             sql.NullString
		salaryMin, salaryMax sql.NullInt64
		skills               []byte
		status               string
	)
	dest := append([]interface{}{
		&job.ID, &job.CompanyID, &job.Title, &job.Description, &location, &job.RemoteOK,
		&salaryMin, &salaryMax, &skills, &status, &job.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return job, err
	}

	decoded, err := decodeSkills(skills)
	if err != nil {
		return job, err
	}
	job.Location = nullString(location)
	job.SalaryMin = nullInt(salaryMin)
	job.SalaryMax = nullInt(salaryMax)
	job.Skills = decoded
	job.Status = models.JobStatus(status)
	return job, nil
}

const candidateColumns = `c.id, c.summary, c.skills, c.experience_years, c.salary_expectation, c.resume_url`

func scanCandidate(row rowScanner, extra ...interface{}) (models.Candidate, error) {
	var (
		c                  models.Candidate
		summary, resumeURL sql.NullString
		experience, salary sql.NullInt64
		skills             []byte
	)
	dest := append([]interface{}{&c.ID, &summary, &skills, &experience, &salary, &resumeURL}, extra...)
	if err := row.Scan(dest...); err != nil {
		return c, err
	}

	decoded, err := decodeSkills(skills)
	if err != nil {
		return c, err
	}
	c.Summary = summary.String
	c.Skills = decoded
	c.ExperienceYears = nullInt(experience)
	c.SalaryExpectation = nullInt(salary)
	c.ResumeURL = nullString(resumeURL)
	return c, nil
}

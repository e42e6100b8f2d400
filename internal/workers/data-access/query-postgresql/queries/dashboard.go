package queries

import (
	"context"
	"database/sql"
	"time"

	"recruit-workers/internal/models"
)

// JobsByCompany lists every job owned by params["companyId"].
func JobsByCompany(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	companyID, err := stringParam(params, "companyId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs j
		WHERE j.company_id = $1`, companyID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return jobs, len(jobs), time.Since(start).Milliseconds(), nil
}

// ApplicationsByCompany lists applications to any job of params["companyId"].
// The job set is a sub-select so this read does not depend on JobsByCompany.
func ApplicationsByCompany(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	companyID, err := stringParam(params, "companyId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT a.id, a.job_id, a.candidate_id, a.status, a.ai_match_score, a.applied_at
		FROM applications a
		WHERE a.job_id IN (SELECT id FROM jobs WHERE company_id = $1)`, companyID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	applications := []models.Application{}
	for rows.Next() {
		var (
			a      models.Application
			status string
			score  sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.JobID, &a.CandidateID, &status, &score, &a.AppliedAt); err != nil {
			return nil, 0, 0, err
		}
		a.Status = models.ApplicationStatus(status)
		a.AIMatchScore = nullInt(score)
		applications = append(applications, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return applications, len(applications), time.Since(start).Milliseconds(), nil
}

// Candidates lists every candidate record.
func Candidates(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates c`)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, 0, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return candidates, len(candidates), time.Since(start).Milliseconds(), nil
}

// Profile loads one profile by params["userId"]. A missing row is not an
// error: data is nil and rowCount is 0.
func Profile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, err := stringParam(params, "userId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()

	var (
		p                                models.Profile
		email, firstName, lastName, role sql.NullString
		companyID, location              sql.NullString
	)
	err = db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, role, company_id, location
		FROM profiles
		WHERE id = $1`, userID).Scan(&p.ID, &email, &firstName, &lastName, &role, &companyID, &location)
	if err == sql.ErrNoRows {
		return nil, 0, time.Since(start).Milliseconds(), nil
	}
	if err != nil {
		return nil, 0, 0, err
	}

	p.Email = email.String
	p.FirstName = firstName.String
	p.LastName = lastName.String
	p.Role = models.Role(role.String)
	p.CompanyID = nullString(companyID)
	p.Location = nullString(location)

	return &p, 1, time.Since(start).Milliseconds(), nil
}

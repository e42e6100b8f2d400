// internal/models/job.go
package models

import "time"

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

type Job struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    *string   `json:"location,omitempty"`
	RemoteOK    bool      `json:"remoteOk"`
	SalaryMin   *int      `json:"salaryMin,omitempty"`
	SalaryMax   *int      `json:"salaryMax,omitempty"`
	Skills      []string  `json:"skills"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	Company     *Company  `json:"company,omitempty"`
}

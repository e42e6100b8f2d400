// internal/models/application.go
package models

import "time"

type ApplicationStatus string

const (
	ApplicationStatusApplied    ApplicationStatus = "applied"
	ApplicationStatusScreening  ApplicationStatus = "screening"
	ApplicationStatusInterview  ApplicationStatus = "interview"
	ApplicationStatusAssessment ApplicationStatus = "assessment"
	ApplicationStatusOffer      ApplicationStatus = "offer"
	ApplicationStatusHired      ApplicationStatus = "hired"
	ApplicationStatusRejected   ApplicationStatus = "rejected"
)

// IsActive reports whether the application is still in the pipeline.
// Unrecognized statuses count as active.
func (s ApplicationStatus) IsActive() bool {
	return s != ApplicationStatusHired && s != ApplicationStatusRejected
}

type Application struct {
	ID           string            `json:"id"`
	JobID        string            `json:"jobId"`
	CandidateID  string            `json:"candidateId"`
	Status       ApplicationStatus `json:"status"`
	AIMatchScore *int              `json:"aiMatchScore,omitempty"`
	AppliedAt    time.Time         `json:"appliedAt"`
}

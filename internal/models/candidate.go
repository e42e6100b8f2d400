// internal/models/candidate.go
package models

type Candidate struct {
	ID                string   `json:"id"`
	Summary           string   `json:"summary"`
	Skills            []string `json:"skills"`
	ExperienceYears   *int     `json:"experienceYears,omitempty"`
	SalaryExpectation *int     `json:"salaryExpectation,omitempty"`
	ResumeURL         *string  `json:"resumeUrl,omitempty"`
	Profile           *Profile `json:"profile,omitempty"`
}

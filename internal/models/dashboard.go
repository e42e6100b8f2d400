package models

// DashboardStats is the fixed-shape summary shown on the dashboard.
type DashboardStats struct {
	TotalJobs          int    `json:"totalJobs"`
	ActiveApplications int    `json:"activeApplications"`
	TotalCandidates    int    `json:"totalCandidates"`
	TimeToHire         string `json:"timeToHire"`
}

const (
	DefaultTimeToHire     = "0 days"
	PlaceholderTimeToHire = "5.2 days"
)

func DefaultDashboardStats() DashboardStats {
	return DashboardStats{TimeToHire: DefaultTimeToHire}
}

type ViewState string

const (
	ViewStateLoading ViewState = "loading"
	ViewStateLoaded  ViewState = "loaded"
)

type StatCard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DashboardView carries the same fields for every role; only the content
// differs between the recruiter and candidate variants.
type DashboardView struct {
	State               ViewState      `json:"state"`
	Role                Role           `json:"role,omitempty"`
	IsRecruiter         bool           `json:"isRecruiter"`
	Greeting            string         `json:"greeting"`
	Subtitle            string         `json:"subtitle"`
	Stats               DashboardStats `json:"stats"`
	Cards               []StatCard     `json:"cards"`
	HeaderActions       []string       `json:"headerActions"`
	QuickActions        []string       `json:"quickActions"`
	MetricsTitle        string         `json:"metricsTitle"`
	Metrics             []Metric       `json:"metrics"`
	ActivityTitle       string         `json:"activityTitle"`
	ActivityDescription string         `json:"activityDescription"`
}

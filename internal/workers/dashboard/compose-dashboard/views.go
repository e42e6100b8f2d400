package composedashboard

import (
	"fmt"
	"strconv"

	"recruit-workers/internal/models"
)

const (
	candidateMatchRate    = "92%"
	candidateResponseTime = "2.4h"
	primaryMetricValue    = "85%"
	secondaryMetricValue  = "92%"
	activityTitle         = "Recent Activity"
)

// LoadingView is returned while no profile is available.
func LoadingView() models.DashboardView {
	return models.DashboardView{
		State:         models.ViewStateLoading,
		Stats:         models.DefaultDashboardStats(),
		Cards:         []models.StatCard{},
		HeaderActions: []string{},
		QuickActions:  []string{},
		Metrics:       []models.Metric{},
	}
}

// BuildView renders the role-specific dashboard for a loaded profile.
func BuildView(profile *models.Profile, stats models.DashboardStats) models.DashboardView {
	recruiter := models.IsRecruiter(profile.Role)

	view := models.DashboardView{
		State:         models.ViewStateLoaded,
		Role:          profile.Role,
		IsRecruiter:   recruiter,
		Greeting:      fmt.Sprintf("Welcome back, %s!", profile.FirstName),
		Stats:         stats,
		ActivityTitle: activityTitle,
	}

	if recruiter {
		view.Subtitle = "Manage your hiring pipeline"
		view.Cards = []models.StatCard{
			{Key: "totalJobs", Label: "Active Jobs", Value: strconv.Itoa(stats.TotalJobs)},
			{Key: "activeApplications", Label: "Active Applications", Value: strconv.Itoa(stats.ActiveApplications)},
			{Key: "totalCandidates", Label: "Total Candidates", Value: strconv.Itoa(stats.TotalCandidates)},
			{Key: "timeToHire", Label: "Avg. Time to Hire", Value: stats.TimeToHire},
		}
		view.HeaderActions = []string{"Post Job", "Find Candidates"}
		view.QuickActions = []string{"Create Job Posting", "Search Candidates", "View Analytics", "Messages"}
		view.MetricsTitle = "Hiring Metrics"
		view.Metrics = []models.Metric{
			{Label: "Fill Rate", Value: primaryMetricValue},
			{Label: "Response Rate", Value: secondaryMetricValue},
		}
		view.ActivityDescription = "Latest updates from your hiring pipeline"
		return view
	}

	view.Subtitle = "Discover your next opportunity"
	view.Cards = []models.StatCard{
		{Key: "totalJobs", Label: "Applications Sent", Value: strconv.Itoa(stats.TotalJobs)},
		{Key: "activeApplications", Label: "Interviews", Value: strconv.Itoa(stats.ActiveApplications)},
		{Key: "matchRate", Label: "Match Rate", Value: candidateMatchRate},
		{Key: "responseTime", Label: "Response Time", Value: candidateResponseTime},
	}
	view.HeaderActions = []string{"Browse Jobs"}
	view.QuickActions = []string{"Browse Jobs", "Complete Profile", "Practice Interview", "Skill Assessment"}
	view.MetricsTitle = "Your Progress"
	view.Metrics = []models.Metric{
		{Label: "Profile Completion", Value: primaryMetricValue},
		{Label: "Application Success", Value: secondaryMetricValue},
	}
	view.ActivityDescription = "Latest updates from your job search"
	return view
}

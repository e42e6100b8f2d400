package composedashboard

import "recruit-workers/internal/models"

// ComputeStats reduces the three dashboard reads into DashboardStats.
// Time to hire is a placeholder and is not derived from the data.
func ComputeStats(jobs []models.Job, applications []models.Application, candidates []models.Candidate) models.DashboardStats {
	stats := models.DefaultDashboardStats()
	stats.TotalJobs = len(jobs)
	stats.TotalCandidates = len(candidates)

	for _, a := range applications {
		if a.Status.IsActive() {
			stats.ActiveApplications++
		}
	}

	if stats.TotalJobs > 0 {
		stats.TimeToHire = models.PlaceholderTimeToHire
	}
	return stats
}

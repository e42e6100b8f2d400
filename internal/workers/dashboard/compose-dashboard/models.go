// internal/workers/dashboard/compose-dashboard/models.go
package composedashboard

import "recruit-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	View models.DashboardView `json:"view"`
}

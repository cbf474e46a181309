package dto

import "github.com/noah-isme/sma-admin-console/internal/models"

// DashboardResponse aggregates the landing page counters.
type DashboardResponse struct {
	AccountsByType map[models.UserType]int     `json:"accountsByType"`
	TotalAccounts  int                         `json:"totalAccounts"`
	Students       int                         `json:"students"`
	Teachers       int                         `json:"teachers"`
	Subjects       int                         `json:"subjects"`
	RecentRecords  []models.DisciplinaryRecord `json:"recentRecords"`
	System         *models.SystemMetrics       `json:"system,omitempty"`
}

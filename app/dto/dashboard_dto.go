package dto

// DashboardSummary holds record counts shown on the admin dashboard
type DashboardSummary struct {
	Counts              map[string]int `json:"counts"`
	PendingApplications int            `json:"pending_applications"`
	PublishedNews       int            `json:"published_news"`
	ActiveServices      int            `json:"active_services"`
}

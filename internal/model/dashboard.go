package model

// DashboardStats is the landing page summary for a signed-in account.
type DashboardStats struct {
	PapersByStatus      map[PaperStatus]int `json:"papers_by_status"`
	AwaitingReview      int                 `json:"awaiting_review"`
	OpenAssignments     int                 `json:"open_assignments"`
	OverdueAssignments  int                 `json:"overdue_assignments"`
	UnreadNotifications int                 `json:"unread_notifications"`
}

package service

import (
	"context"
	"time"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
)

// DashboardService handles dashboard aggregations.
type DashboardService struct {
	repo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetStats builds the dashboard for an account. Faculty see their own papers
// and assignments; reviewers and administrators see the whole department.
func (s *DashboardService) GetStats(ctx context.Context, actor Actor) (*model.DashboardStats, error) {
	var scope *int
	if !actor.canReadAll() {
		own := actor.ID
		scope = &own
	}

	byStatus, err := s.repo.GetPaperStatusCounts(ctx, scope)
	if err != nil {
		return nil, err
	}

	awaiting, open, overdue, unread, err := s.repo.GetSummaryCounts(ctx, actor.ID, scope, time.Now())
	if err != nil {
		return nil, err
	}
	if !actor.Can(model.PermissionPapersReview) {
		awaiting = 0
	}

	return &model.DashboardStats{
		PapersByStatus:      byStatus,
		AwaitingReview:      awaiting,
		OpenAssignments:     open,
		OverdueAssignments:  overdue,
		UnreadNotifications: unread,
	}, nil
}

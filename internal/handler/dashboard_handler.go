package handler

import (
	"net/http"

	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DashboardHandler handles the landing page summary.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// GetDashboard godoc
// GET /api/v1/dashboard
// Returns paper counts by status, the review backlog, assignment deadlines
// and unread notifications, scoped to what the caller may see.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), actor)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

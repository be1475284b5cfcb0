package handler

import (
	"net/http"
	"strconv"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/campusdesk/erp-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NotificationHandler handles the in-app notification inbox.
type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "notification_handler").Logger(),
	}
}

// ListNotifications godoc
// GET /api/v1/notifications?page=1&per_page=20&unread_only=true
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var q model.NotificationListQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = defaultPerPage
	}

	items, total, err := h.notificationService.List(c.Request.Context(), actor.ID, q)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Paginated(c, gin.H{"notifications": items}, q.Page, q.PerPage, total)
}

// UnreadCount godoc
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), actor.ID)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

// MarkRead godoc
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	found, err := h.notificationService.MarkRead(c.Request.Context(), actor.ID, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	if !found {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "notification marked as read"})
}

// MarkAllRead godoc
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkAllRead(c.Request.Context(), actor.ID)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

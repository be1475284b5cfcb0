package handler

import (
	"net/http"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/campusdesk/erp-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AssignmentHandler handles paper setting assignments.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	log               zerolog.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService, log zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		log:               log.With().Str("component", "assignment_handler").Logger(),
	}
}

// ListAssignments godoc
// GET /api/v1/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.List(c.Request.Context(), actor)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// CreateAssignment godoc
// POST /api/v1/assignments
// Assigns paper setting for a course to a faculty member.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req model.CreateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	a, err := h.assignmentService.Create(c.Request.Context(), actor, req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": a})
}

// DeleteAssignment godoc
// DELETE /api/v1/assignments/:id
// Only assignments without a paper can be deleted.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), id); err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "assignment deleted"})
}

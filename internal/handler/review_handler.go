package handler

import (
	"context"
	"net/http"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/campusdesk/erp-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReviewHandler handles the head of department's review actions.
type ReviewHandler struct {
	paperService *service.QuestionPaperService
	log          zerolog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(paperService *service.QuestionPaperService, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		paperService: paperService,
		log:          log.With().Str("component", "review_handler").Logger(),
	}
}

// ListQueue godoc
// GET /api/v1/reviews
// Lists papers waiting for or under review.
func (h *ReviewHandler) ListQueue(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)

	papers, total, err := h.paperService.ListReviewQueue(c.Request.Context(), actor, page, perPage)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Paginated(c, gin.H{"papers": papers}, page, perPage, total)
}

// Claim godoc
// POST /api/v1/papers/:id/claim
// Moves a submitted paper to UNDER_REVIEW with the caller as reviewer.
func (h *ReviewHandler) Claim(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	paper, err := h.paperService.Claim(c.Request.Context(), actor, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// Approve godoc
// POST /api/v1/papers/:id/approve
// Body: {"comment": "optional"}
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.decide(c, h.paperService.Approve)
}

// Reject godoc
// POST /api/v1/papers/:id/reject
// Body: {"comment": "reason, required"}
func (h *ReviewHandler) Reject(c *gin.Context) {
	h.decide(c, h.paperService.Reject)
}

type decideFunc func(ctx context.Context, actor service.Actor, id uuid.UUID, note string) (*model.QuestionPaper, error)

func (h *ReviewHandler) decide(c *gin.Context, apply decideFunc) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	// An approval may be posted without a body.
	var req model.ReviewRequest
	if c.Request.ContentLength != 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	paper, err := apply(c.Request.Context(), actor, id, req.Comment)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

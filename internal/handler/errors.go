package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campusdesk/erp-backend/internal/middleware"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	maxPage        = 10000
)

// failWithError maps a service error onto the response envelope. Unknown
// errors are logged and reported as internal.
func failWithError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		validationErr *model.ValidationError
		stateErr      *model.InvalidStateError
		documentErr   *model.DocumentError
	)

	switch {
	case errors.As(err, &validationErr):
		response.FailWithViolations(c, http.StatusUnprocessableEntity, response.ErrPaperValidation, validationErr.Violations)
	case errors.As(err, &stateErr):
		response.Fail(c, http.StatusConflict, response.ErrInvalidPaperState)
	case errors.As(err, &documentErr):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Document operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrDocumentWrite)

	case errors.Is(err, service.ErrNotPaperOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotPaperOwner)
	case errors.Is(err, service.ErrNotReviewer):
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)

	case errors.Is(err, service.ErrPaperNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, model.ErrQuestionNotFound),
		errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNoDocument):
		response.Fail(c, http.StatusNotFound, response.ErrNoDocument)

	case errors.Is(err, service.ErrPaperConflict):
		response.Fail(c, http.StatusConflict, response.ErrPaperConflict)
	case errors.Is(err, model.ErrQuestionSlotTaken):
		response.Fail(c, http.StatusConflict, response.ErrQuestionSlotTaken)
	case errors.Is(err, repository.ErrAssignmentHasPaper):
		response.Fail(c, http.StatusConflict, response.ErrAssignmentHasPaper)
	case errors.Is(err, repository.ErrDuplicateCourse),
		errors.Is(err, repository.ErrDuplicateEmail):
		response.Fail(c, http.StatusConflict, response.ErrConflict)

	case errors.Is(err, repository.ErrReferencedRowAbsent):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrReferenceMissing)
	case errors.Is(err, service.ErrCourseMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrCourseMismatch)
	case errors.Is(err, service.ErrAssignmentMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrAssignmentMismatch)
	case errors.Is(err, service.ErrDeadlineInPast):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrDeadlineInPast)

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// actorOrAbort returns the authenticated actor, or writes 401 and reports false.
func actorOrAbort(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	}
	return actor, ok
}

// uuidParam parses a UUID path parameter, writing 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page and per_page, falling back to the defaults.
func pageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

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

// CourseHandler serves regulation and course lookups.
type CourseHandler struct {
	courseService *service.CourseService
	log           zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		log:           log.With().Str("component", "course_handler").Logger(),
	}
}

// ListRegulations godoc
// GET /api/v1/regulations
func (h *CourseHandler) ListRegulations(c *gin.Context) {
	regulations, err := h.courseService.ListRegulations(c.Request.Context())
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"regulations": regulations})
}

// ListCourses godoc
// GET /api/v1/courses?regulation_id=1&semester=3
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var f model.CourseFilter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	courses, err := h.courseService.ListCourses(c.Request.Context(), f)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// CreateCourse godoc
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

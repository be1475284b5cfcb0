package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/database"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CourseCacheTTL bounds how long lookup lists stay cached.
const CourseCacheTTL = 10 * time.Minute

// CourseService serves regulation and course lookups through a Redis cache.
type CourseService struct {
	courseRepo *repository.CourseRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, rdb *redis.Client, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// ListRegulations returns every regulation.
func (s *CourseService) ListRegulations(ctx context.Context) ([]model.Regulation, error) {
	var out []model.Regulation
	err := s.cached(ctx, config.CacheKey.RegulationListKey(), &out, func() (interface{}, error) {
		return s.courseRepo.ListRegulations(ctx)
	})
	return out, err
}

// ListCourses returns the courses matching the filter.
func (s *CourseService) ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, error) {
	var out []model.Course
	err := s.cached(ctx, config.CacheKey.CourseListKey(f.RegulationID, f.Semester), &out, func() (interface{}, error) {
		return s.courseRepo.ListCourses(ctx, f)
	})
	return out, err
}

// GetCourse retrieves a course by ID.
func (s *CourseService) GetCourse(ctx context.Context, id int) (*model.Course, error) {
	return s.courseRepo.GetCourse(ctx, id)
}

// CreateCourse adds a course and drops every cached course listing.
func (s *CourseService) CreateCourse(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	c := &model.Course{
		Code:         req.Code,
		Title:        req.Title,
		RegulationID: req.RegulationID,
		Semester:     req.Semester,
	}
	if err := s.courseRepo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateCourses(ctx)
	return c, nil
}

// cached decodes key into dst, or loads the value and caches it. Redis
// failures degrade to a direct load.
func (s *CourseService) cached(ctx context.Context, key string, dst interface{}, load func() (interface{}, error)) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(data, dst); err == nil {
			return nil
		}
		s.log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	v, err := load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, raw, CourseCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return json.Unmarshal(raw, dst)
}

func (s *CourseService) invalidateCourses(ctx context.Context) {
	n, err := database.DeleteByPattern(ctx, s.rdb, config.CacheKey.CourseListPattern())
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate course cache")
		return
	}
	s.log.Debug().Int64("keys", n).Msg("Course cache invalidated")
}

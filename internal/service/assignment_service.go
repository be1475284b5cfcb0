package service

import (
	"context"
	"errors"
	"time"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Assignment errors.
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrDeadlineInPast     = errors.New("deadline must be in the future")
)

// AssignmentService manages paper setting assignments.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	courseRepo     *repository.CourseRepository
	notifications  *NotificationService
	log            zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	courseRepo *repository.CourseRepository,
	notifications *NotificationService,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		notifications:  notifications,
		log:            log.With().Str("component", "assignment_service").Logger(),
	}
}

// List returns the actor's assignments, or every assignment for accounts
// that can assign.
func (s *AssignmentService) List(ctx context.Context, actor Actor) ([]model.PaperAssignment, error) {
	if actor.Can(model.PermissionAssignmentsWrite) {
		return s.assignmentRepo.List(ctx, nil)
	}
	own := actor.ID
	return s.assignmentRepo.List(ctx, &own)
}

// Create assigns paper setting for a course to a faculty member and notifies them.
func (s *AssignmentService) Create(ctx context.Context, actor Actor, req model.CreateAssignmentRequest) (*model.PaperAssignment, error) {
	now := time.Now().UTC()
	if !req.Deadline.After(now) {
		return nil, ErrDeadlineInPast
	}

	course, err := s.courseRepo.GetCourse(ctx, req.CourseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrReferencedRowAbsent
	}
	if err != nil {
		return nil, err
	}

	a := &model.PaperAssignment{
		ID:           uuid.New(),
		CourseID:     course.ID,
		CourseCode:   course.Code,
		CourseTitle:  course.Title,
		FacultyID:    req.FacultyID,
		AssignedBy:   actor.ID,
		ExamType:     req.ExamType,
		Deadline:     req.Deadline.UTC(),
		Instructions: req.Instructions,
		CreatedAt:    now,
	}
	if err := s.assignmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	if err := s.notifications.AssignmentCreated(ctx, a, actor); err != nil {
		s.log.Warn().Err(err).Str("assignment_id", a.ID.String()).Msg("Failed to notify assigned faculty")
	}
	s.log.Info().
		Str("assignment_id", a.ID.String()).
		Int("faculty_id", a.FacultyID).
		Str("course", a.CourseCode).
		Msg("Paper assignment created")
	return a, nil
}

// Delete removes an assignment that has no paper yet.
func (s *AssignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.assignmentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return s.assignmentRepo.Delete(ctx, id)
}

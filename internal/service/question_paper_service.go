package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Question paper errors.
var (
	ErrPaperNotFound      = errors.New("question paper not found")
	ErrNotPaperOwner      = errors.New("paper belongs to another faculty member")
	ErrNotReviewer        = errors.New("reviewer permission required")
	ErrNoDocument         = errors.New("paper has no generated document yet")
	ErrAssignmentMismatch = errors.New("assignment belongs to another faculty member or course")
	ErrCourseMismatch     = errors.New("course does not belong to the selected regulation")
	ErrPaperConflict      = errors.New("paper was changed by another request, reload and retry")
)

// PaperStore persists question papers.
type PaperStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.QuestionPaper, error)
	List(ctx context.Context, f model.PaperFilter, limit, offset int) ([]model.PaperSummary, int, error)
	Create(ctx context.Context, p *model.QuestionPaper) error
	UpdateDetails(ctx context.Context, p *model.QuestionPaper) error
	Delete(ctx context.Context, id uuid.UUID) error
	InsertQuestion(ctx context.Context, q *model.Question) error
	UpdateQuestion(ctx context.Context, q *model.Question) error
	DeleteQuestion(ctx context.Context, paperID, questionID uuid.UUID, now time.Time) error
	UpdateStatus(ctx context.Context, p *model.QuestionPaper, from model.PaperStatus, loadedAt time.Time, actorID int, note string) error
	ListTransitions(ctx context.Context, paperID uuid.UUID) ([]model.PaperTransition, error)
}

// CourseLookup resolves the course a paper is set for.
type CourseLookup interface {
	GetCourse(ctx context.Context, id int) (*model.Course, error)
}

// AssignmentLookup resolves the assignment a paper is created for.
type AssignmentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.PaperAssignment, error)
}

// DocumentRenderer turns a paper into its printable document.
type DocumentRenderer interface {
	Render(p *model.QuestionPaper, w io.Writer) error
}

// DocumentStore keeps rendered documents.
type DocumentStore interface {
	Save(ctx context.Context, prefix, ext string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// WorkbookWriter exports the mark distribution of a paper as a spreadsheet.
type WorkbookWriter func(p *model.QuestionPaper, w io.Writer) error

// PaperEvent describes a committed status change.
type PaperEvent struct {
	Paper *model.QuestionPaper
	From  model.PaperStatus
	Actor Actor
	// PreviousReviewer is the reviewer recorded before the change, if any.
	PreviousReviewer *int
}

// PaperNotifier is told about every committed status change.
type PaperNotifier interface {
	PaperTransitioned(ctx context.Context, ev PaperEvent) error
}

// QuestionPaperService drives the paper lifecycle: authoring, validation,
// submission with document generation, and review.
type QuestionPaperService struct {
	papers      PaperStore
	courses     CourseLookup
	assignments AssignmentLookup
	renderer    DocumentRenderer
	store       DocumentStore
	workbook    WorkbookWriter
	notifier    PaperNotifier
	now         func() time.Time
	log         zerolog.Logger
}

// QuestionPaperDeps groups the collaborators of QuestionPaperService.
type QuestionPaperDeps struct {
	Papers      PaperStore
	Courses     CourseLookup
	Assignments AssignmentLookup
	Renderer    DocumentRenderer
	Store       DocumentStore
	Workbook    WorkbookWriter
	Notifier    PaperNotifier
}

// NewQuestionPaperService creates a new QuestionPaperService.
func NewQuestionPaperService(deps QuestionPaperDeps, log zerolog.Logger) *QuestionPaperService {
	return &QuestionPaperService{
		papers:      deps.Papers,
		courses:     deps.Courses,
		assignments: deps.Assignments,
		renderer:    deps.Renderer,
		store:       deps.Store,
		workbook:    deps.Workbook,
		notifier:    deps.Notifier,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log.With().Str("component", "question_paper_service").Logger(),
	}
}

// ─── Loading & access ────────────────────────────────────────────────

func (s *QuestionPaperService) load(ctx context.Context, id uuid.UUID) (*model.QuestionPaper, error) {
	p, err := s.papers.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaperNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load paper %s: %w", id, err)
	}
	return p, nil
}

func (s *QuestionPaperService) loadOwned(ctx context.Context, id uuid.UUID, actor Actor) (*model.QuestionPaper, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FacultyID != actor.ID {
		return nil, ErrNotPaperOwner
	}
	return p, nil
}

func (s *QuestionPaperService) loadReadable(ctx context.Context, id uuid.UUID, actor Actor) (*model.QuestionPaper, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FacultyID != actor.ID && !actor.canReadAll() {
		return nil, ErrNotPaperOwner
	}
	return p, nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrStatusConflict):
		return ErrPaperConflict
	case errors.Is(err, pgx.ErrNoRows):
		return ErrPaperNotFound
	}
	return err
}

// ─── Authoring ───────────────────────────────────────────────────────

// Create starts a new DRAFT paper owned by the actor.
func (s *QuestionPaperService) Create(ctx context.Context, actor Actor, req model.CreatePaperRequest) (*model.QuestionPaper, error) {
	course, err := s.courses.GetCourse(ctx, req.CourseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrReferencedRowAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course.RegulationID != req.RegulationID {
		return nil, ErrCourseMismatch
	}

	if req.AssignmentID != nil {
		a, err := s.assignments.GetByID(ctx, *req.AssignmentID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrReferencedRowAbsent
		}
		if err != nil {
			return nil, fmt.Errorf("load assignment: %w", err)
		}
		if a.FacultyID != actor.ID || a.CourseID != req.CourseID {
			return nil, ErrAssignmentMismatch
		}
		if a.PaperID != nil {
			return nil, repository.ErrAssignmentHasPaper
		}
	}

	p := model.NewQuestionPaper(actor.ID, req.Details(), s.now())
	p.AssignmentID = req.AssignmentID
	p.FacultyName = actor.Name
	p.CourseCode = course.Code
	p.CourseTitle = course.Title
	p.RegulationName = course.RegulationName

	if err := s.papers.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Str("paper_id", p.ID.String()).Int("faculty_id", actor.ID).Str("course", course.Code).Msg("Paper created")
	return p, nil
}

// Get returns a paper the actor may read.
func (s *QuestionPaperService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*model.QuestionPaper, error) {
	return s.loadReadable(ctx, id, actor)
}

// List returns a page of papers. Accounts that may not read every paper only
// see their own.
func (s *QuestionPaperService) List(ctx context.Context, actor Actor, f model.PaperFilter, page, perPage int) ([]model.PaperSummary, int, error) {
	if !actor.canReadAll() {
		own := actor.ID
		f.FacultyID = &own
	}
	return s.papers.List(ctx, f, perPage, (page-1)*perPage)
}

// ListReviewQueue returns submitted papers and papers under review.
func (s *QuestionPaperService) ListReviewQueue(ctx context.Context, actor Actor, page, perPage int) ([]model.PaperSummary, int, error) {
	if !actor.Can(model.PermissionPapersReview) {
		return nil, 0, ErrNotReviewer
	}
	f := model.PaperFilter{Statuses: []model.PaperStatus{model.PaperStatusSubmitted, model.PaperStatusUnderReview}}
	return s.papers.List(ctx, f, perPage, (page-1)*perPage)
}

// UpdateDetails edits the metadata of a draft paper.
func (s *QuestionPaperService) UpdateDetails(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdatePaperRequest) (*model.QuestionPaper, error) {
	p, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourse(ctx, req.CourseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrReferencedRowAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course.RegulationID != req.RegulationID {
		return nil, ErrCourseMismatch
	}

	if err := p.UpdateDetails(req.Details(), s.now()); err != nil {
		return nil, err
	}
	if err := s.papers.UpdateDetails(ctx, p); err != nil {
		return nil, storeErr(err)
	}
	p.CourseCode = course.Code
	p.CourseTitle = course.Title
	p.RegulationName = course.RegulationName
	return p, nil
}

// Delete removes a draft paper.
func (s *QuestionPaperService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	p, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := p.EnsureDeletable(); err != nil {
		return err
	}
	if err := s.papers.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.log.Info().Str("paper_id", id.String()).Msg("Paper deleted")
	return nil
}

// AddQuestion adds a question to a draft paper.
func (s *QuestionPaperService) AddQuestion(ctx context.Context, actor Actor, paperID uuid.UUID, req model.QuestionRequest) (*model.Question, error) {
	p, err := s.loadOwned(ctx, paperID, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	q := req.ToQuestion()
	q.CreatedAt, q.UpdatedAt = now, now
	q, err = p.AddQuestion(q)
	if err != nil {
		return nil, err
	}
	if err := s.papers.InsertQuestion(ctx, &q); err != nil {
		return nil, storeErr(err)
	}
	return &q, nil
}

// UpdateQuestion replaces a question on a draft paper.
func (s *QuestionPaperService) UpdateQuestion(ctx context.Context, actor Actor, paperID, questionID uuid.UUID, req model.QuestionRequest) (*model.Question, error) {
	p, err := s.loadOwned(ctx, paperID, actor)
	if err != nil {
		return nil, err
	}

	q := req.ToQuestion()
	q.ID = questionID
	q.UpdatedAt = s.now()
	q, err = p.UpdateQuestion(q)
	if err != nil {
		return nil, err
	}
	if err := s.papers.UpdateQuestion(ctx, &q); err != nil {
		return nil, storeErr(err)
	}
	return &q, nil
}

// RemoveQuestion deletes a question from a draft paper.
func (s *QuestionPaperService) RemoveQuestion(ctx context.Context, actor Actor, paperID, questionID uuid.UUID) error {
	p, err := s.loadOwned(ctx, paperID, actor)
	if err != nil {
		return err
	}
	if err := p.RemoveQuestion(questionID); err != nil {
		return err
	}
	return storeErr(s.papers.DeleteQuestion(ctx, paperID, questionID, s.now()))
}

// Distribution computes the current mark distribution of a paper. It never
// changes the paper.
func (s *QuestionPaperService) Distribution(ctx context.Context, actor Actor, id uuid.UUID) (*model.Distribution, error) {
	p, err := s.loadReadable(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	d := p.Distribution()
	return &d, nil
}

// ExportDistribution writes the mark distribution workbook of a paper.
func (s *QuestionPaperService) ExportDistribution(ctx context.Context, actor Actor, id uuid.UUID, w io.Writer) (*model.QuestionPaper, error) {
	p, err := s.loadReadable(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := s.workbook(p, w); err != nil {
		return nil, &model.DocumentError{Op: "export distribution", Err: err}
	}
	return p, nil
}

// ─── Workflow ────────────────────────────────────────────────────────

// Submit validates a draft paper, generates its document and moves it to
// SUBMITTED. When the document cannot be produced the paper stays a draft.
func (s *QuestionPaperService) Submit(ctx context.Context, actor Actor, id uuid.UUID) (*model.QuestionPaper, error) {
	p, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	from, loadedAt := p.Status, p.UpdatedAt
	previousRef := p.DocumentRef
	if err := p.Submit(s.now()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(p, &buf); err != nil {
		return nil, &model.DocumentError{Op: "render", Err: err}
	}
	ref, err := s.store.Save(ctx, p.ID.String(), ".docx", &buf)
	if err != nil {
		return nil, &model.DocumentError{Op: "store", Err: err}
	}
	p.DocumentRef = ref

	// A question edited since the load bumps updated_at and fails this write.
	if err := s.papers.UpdateStatus(ctx, p, from, loadedAt, actor.ID, ""); err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), ref); delErr != nil {
			s.log.Warn().Err(delErr).Str("ref", ref).Msg("Failed to remove orphaned document")
		}
		return nil, storeErr(err)
	}

	if previousRef != "" && previousRef != ref {
		if err := s.store.Delete(ctx, previousRef); err != nil {
			s.log.Warn().Err(err).Str("ref", previousRef).Msg("Failed to remove replaced document")
		}
	}

	s.log.Info().Str("paper_id", p.ID.String()).Str("document_ref", ref).Msg("Paper submitted")
	s.notify(ctx, PaperEvent{Paper: p, From: from, Actor: actor})
	return p, nil
}

// Claim takes a submitted paper into review.
func (s *QuestionPaperService) Claim(ctx context.Context, actor Actor, id uuid.UUID) (*model.QuestionPaper, error) {
	return s.review(ctx, actor, id, "", func(p *model.QuestionPaper, now time.Time) error {
		return p.Claim(actor.ID, now)
	})
}

// Approve accepts a paper under review.
func (s *QuestionPaperService) Approve(ctx context.Context, actor Actor, id uuid.UUID, comment string) (*model.QuestionPaper, error) {
	return s.review(ctx, actor, id, comment, func(p *model.QuestionPaper, now time.Time) error {
		return p.Approve(actor.ID, comment, now)
	})
}

// Reject returns a paper under review to its author with a reason.
func (s *QuestionPaperService) Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*model.QuestionPaper, error) {
	return s.review(ctx, actor, id, reason, func(p *model.QuestionPaper, now time.Time) error {
		return p.Reject(actor.ID, reason, now)
	})
}

func (s *QuestionPaperService) review(ctx context.Context, actor Actor, id uuid.UUID, note string, apply func(*model.QuestionPaper, time.Time) error) (*model.QuestionPaper, error) {
	if !actor.Can(model.PermissionPapersReview) {
		return nil, ErrNotReviewer
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, p, note, apply)
}

// Reopen moves a rejected paper back to DRAFT so its author can revise it.
func (s *QuestionPaperService) Reopen(ctx context.Context, actor Actor, id uuid.UUID) (*model.QuestionPaper, error) {
	p, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, p, "", func(p *model.QuestionPaper, now time.Time) error {
		return p.Reopen(now)
	})
}

func (s *QuestionPaperService) transition(ctx context.Context, actor Actor, p *model.QuestionPaper, note string, apply func(*model.QuestionPaper, time.Time) error) (*model.QuestionPaper, error) {
	from, loadedAt, previousReviewer := p.Status, p.UpdatedAt, p.ReviewedBy
	if err := apply(p, s.now()); err != nil {
		return nil, err
	}
	if err := s.papers.UpdateStatus(ctx, p, from, loadedAt, actor.ID, note); err != nil {
		return nil, storeErr(err)
	}

	s.log.Info().
		Str("paper_id", p.ID.String()).
		Str("from", string(from)).
		Str("to", string(p.Status)).
		Int("actor_id", actor.ID).
		Msg("Paper status changed")
	s.notify(ctx, PaperEvent{Paper: p, From: from, Actor: actor, PreviousReviewer: previousReviewer})
	return p, nil
}

func (s *QuestionPaperService) notify(ctx context.Context, ev PaperEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PaperTransitioned(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("paper_id", ev.Paper.ID.String()).Msg("Failed to send status notification")
	}
}

// ─── Artifacts & history ─────────────────────────────────────────────

// Document opens the generated document of a paper. The caller closes it.
func (s *QuestionPaperService) Document(ctx context.Context, actor Actor, id uuid.UUID) (*model.QuestionPaper, io.ReadCloser, error) {
	p, err := s.loadReadable(ctx, id, actor)
	if err != nil {
		return nil, nil, err
	}
	if p.DocumentRef == "" {
		return nil, nil, ErrNoDocument
	}
	rc, err := s.store.Open(ctx, p.DocumentRef)
	if err != nil {
		return nil, nil, &model.DocumentError{Op: "open", Err: err}
	}
	return p, rc, nil
}

// History returns the status transitions of a paper, oldest first.
func (s *QuestionPaperService) History(ctx context.Context, actor Actor, id uuid.UUID) ([]model.PaperTransition, error) {
	if _, err := s.loadReadable(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.papers.ListTransitions(ctx, id)
}

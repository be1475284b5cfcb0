package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionPaper is the aggregate root for a structured end semester paper.
// Its questions can only change while the paper is in DRAFT.
type QuestionPaper struct {
	ID             uuid.UUID   `json:"id"`
	FacultyID      int         `json:"faculty_id"`
	FacultyName    string      `json:"faculty_name,omitempty"`
	AssignmentID   *uuid.UUID  `json:"assignment_id,omitempty"`
	CourseID       int         `json:"course_id"`
	CourseCode     string      `json:"course_code"`
	CourseTitle    string      `json:"course_title"`
	RegulationID   int         `json:"regulation_id"`
	RegulationName string      `json:"regulation_name"`
	AcademicYear   string      `json:"academic_year"`
	Semester       int         `json:"semester"`
	ExamMonthYear  string      `json:"exam_month_year"`
	CODescriptions [5]string   `json:"co_descriptions"`
	Status         PaperStatus `json:"status"`
	ReviewComment  string      `json:"review_comment,omitempty"`
	ReviewedBy     *int        `json:"reviewed_by,omitempty"`
	DocumentRef    string      `json:"document_ref,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	SubmittedAt    *time.Time  `json:"submitted_at,omitempty"`
	ReviewedAt     *time.Time  `json:"reviewed_at,omitempty"`
	Questions      []Question  `json:"questions"`
}

// PaperDetails is the editable metadata of a paper.
type PaperDetails struct {
	CourseID       int
	RegulationID   int
	AcademicYear   string
	Semester       int
	ExamMonthYear  string
	CODescriptions [5]string
}

// NewQuestionPaper creates an empty DRAFT paper owned by a faculty member.
func NewQuestionPaper(facultyID int, details PaperDetails, now time.Time) *QuestionPaper {
	p := &QuestionPaper{
		ID:        uuid.New(),
		FacultyID: facultyID,
		Status:    PaperStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Questions: []Question{},
	}
	p.setDetails(details)
	return p
}

func (p *QuestionPaper) setDetails(d PaperDetails) {
	p.CourseID = d.CourseID
	p.RegulationID = d.RegulationID
	p.AcademicYear = d.AcademicYear
	p.Semester = d.Semester
	p.ExamMonthYear = d.ExamMonthYear
	p.CODescriptions = d.CODescriptions
}

// Editable reports whether the paper content may be changed.
func (p *QuestionPaper) Editable() bool {
	return p.Status == PaperStatusDraft
}

func (p *QuestionPaper) ensureEditable(action PaperAction) error {
	if !p.Editable() {
		return &InvalidStateError{Action: action, Current: p.Status, Allowed: []PaperStatus{PaperStatusDraft}}
	}
	return nil
}

// EnsureDeletable fails unless the paper is still a draft.
func (p *QuestionPaper) EnsureDeletable() error {
	return p.ensureEditable(ActionDelete)
}

// UpdateDetails replaces the paper metadata.
func (p *QuestionPaper) UpdateDetails(d PaperDetails, now time.Time) error {
	if err := p.ensureEditable(ActionEdit); err != nil {
		return err
	}
	p.setDetails(d)
	p.UpdatedAt = now
	return nil
}

// AddQuestion appends a question to the paper. A question without an ID is
// given one.
func (p *QuestionPaper) AddQuestion(q Question) (Question, error) {
	if err := p.ensureEditable(ActionEdit); err != nil {
		return Question{}, err
	}
	if p.slotTaken(q.Slot(), uuid.Nil) {
		return Question{}, ErrQuestionSlotTaken
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	q.PaperID = p.ID
	p.Questions = append(p.Questions, q)
	return q, nil
}

// UpdateQuestion replaces the content of an existing question.
func (p *QuestionPaper) UpdateQuestion(q Question) (Question, error) {
	if err := p.ensureEditable(ActionEdit); err != nil {
		return Question{}, err
	}
	idx := p.questionIndex(q.ID)
	if idx < 0 {
		return Question{}, ErrQuestionNotFound
	}
	if p.slotTaken(q.Slot(), q.ID) {
		return Question{}, ErrQuestionSlotTaken
	}
	q.PaperID = p.ID
	q.CreatedAt = p.Questions[idx].CreatedAt
	p.Questions[idx] = q
	return q, nil
}

// RemoveQuestion deletes a question from the paper.
func (p *QuestionPaper) RemoveQuestion(id uuid.UUID) error {
	if err := p.ensureEditable(ActionEdit); err != nil {
		return err
	}
	idx := p.questionIndex(id)
	if idx < 0 {
		return ErrQuestionNotFound
	}
	p.Questions = append(p.Questions[:idx], p.Questions[idx+1:]...)
	return nil
}

// Question looks up a question by ID.
func (p *QuestionPaper) Question(id uuid.UUID) (Question, bool) {
	if idx := p.questionIndex(id); idx >= 0 {
		return p.Questions[idx], true
	}
	return Question{}, false
}

func (p *QuestionPaper) questionIndex(id uuid.UUID) int {
	for i := range p.Questions {
		if p.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *QuestionPaper) slotTaken(slot string, except uuid.UUID) bool {
	for i := range p.Questions {
		if p.Questions[i].ID != except && p.Questions[i].Slot() == slot {
			return true
		}
	}
	return false
}

// Distribution computes the mark distribution of the paper.
func (p *QuestionPaper) Distribution() Distribution {
	return ComputeDistribution(p.Questions)
}

// Validate returns every rule the paper currently breaks. An empty result
// means the paper can be submitted.
func (p *QuestionPaper) Validate() []string {
	return p.Distribution().Violations
}

// PartQuestions returns the questions of one part in print order.
func (p *QuestionPaper) PartQuestions(part Part) []Question {
	var out []Question
	for _, q := range SortedQuestions(p.Questions) {
		if q.Part == part {
			out = append(out, q)
		}
	}
	return out
}

// OrPair returns options (a) and (b) of a Part B pair. Missing options are
// returned as nil.
func (p *QuestionPaper) OrPair(pair int) (a, b *Question) {
	for _, q := range p.PartQuestions(PartB) {
		if q.OrPair == nil || *q.OrPair != pair {
			continue
		}
		q := q
		switch q.Option {
		case "a":
			if a == nil {
				a = &q
			}
		case "b":
			if b == nil {
				b = &q
			}
		}
	}
	return a, b
}

// CreatePaperRequest is the payload for starting a new paper.
type CreatePaperRequest struct {
	AssignmentID   *uuid.UUID `json:"assignment_id" binding:"omitempty"`
	CourseID       int        `json:"course_id" binding:"required,min=1"`
	RegulationID   int        `json:"regulation_id" binding:"required,min=1"`
	AcademicYear   string     `json:"academic_year" binding:"required,academic_year"`
	Semester       int        `json:"semester" binding:"required,min=1,max=8"`
	ExamMonthYear  string     `json:"exam_month_year" binding:"required,exam_period"`
	CODescriptions [5]string  `json:"co_descriptions" binding:"dive,max=1000"`
}

// Details extracts the paper metadata from the request.
func (r CreatePaperRequest) Details() PaperDetails {
	return PaperDetails{
		CourseID:       r.CourseID,
		RegulationID:   r.RegulationID,
		AcademicYear:   r.AcademicYear,
		Semester:       r.Semester,
		ExamMonthYear:  r.ExamMonthYear,
		CODescriptions: r.CODescriptions,
	}
}

// UpdatePaperRequest is the payload for editing paper metadata.
type UpdatePaperRequest struct {
	CourseID       int       `json:"course_id" binding:"required,min=1"`
	RegulationID   int       `json:"regulation_id" binding:"required,min=1"`
	AcademicYear   string    `json:"academic_year" binding:"required,academic_year"`
	Semester       int       `json:"semester" binding:"required,min=1,max=8"`
	ExamMonthYear  string    `json:"exam_month_year" binding:"required,exam_period"`
	CODescriptions [5]string `json:"co_descriptions" binding:"dive,max=1000"`
}

func (r UpdatePaperRequest) Details() PaperDetails {
	return PaperDetails{
		CourseID:       r.CourseID,
		RegulationID:   r.RegulationID,
		AcademicYear:   r.AcademicYear,
		Semester:       r.Semester,
		ExamMonthYear:  r.ExamMonthYear,
		CODescriptions: r.CODescriptions,
	}
}

// ReviewRequest carries the reviewer's comment or rejection reason.
type ReviewRequest struct {
	Comment string `json:"comment" binding:"omitempty,max=4000"`
}

// PaperFilter narrows a paper listing.
type PaperFilter struct {
	FacultyID *int
	Statuses  []PaperStatus
	CourseID  *int
}

// PaperSummary is the list view of a paper.
type PaperSummary struct {
	ID            uuid.UUID   `json:"id"`
	FacultyID     int         `json:"faculty_id"`
	FacultyName   string      `json:"faculty_name"`
	CourseCode    string      `json:"course_code"`
	CourseTitle   string      `json:"course_title"`
	AcademicYear  string      `json:"academic_year"`
	Semester      int         `json:"semester"`
	ExamMonthYear string      `json:"exam_month_year"`
	Status        PaperStatus `json:"status"`
	Questions     int         `json:"questions"`
	UpdatedAt     time.Time   `json:"updated_at"`
	SubmittedAt   *time.Time  `json:"submitted_at,omitempty"`
}

// PaperTransition is an audit record of a status change.
type PaperTransition struct {
	ID         int64       `json:"id"`
	PaperID    uuid.UUID   `json:"paper_id"`
	FromStatus PaperStatus `json:"from_status"`
	ToStatus   PaperStatus `json:"to_status"`
	ActorID    int         `json:"actor_id"`
	ActorName  string      `json:"actor_name,omitempty"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

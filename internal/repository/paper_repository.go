package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/campusdesk/erp-backend/internal/database"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaperRepository handles question paper data access.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

const paperColumns = `p.id, p.faculty_id, a.name, p.assignment_id, p.course_id, c.code, c.title,
	p.regulation_id, g.name, p.academic_year, p.semester, p.exam_month_year,
	p.co1_description, p.co2_description, p.co3_description, p.co4_description, p.co5_description,
	p.status, p.review_comment, p.reviewed_by, p.document_ref,
	p.created_at, p.updated_at, p.submitted_at, p.reviewed_at`

const paperJoins = `FROM question_papers p
	JOIN accounts a ON a.id = p.faculty_id
	JOIN courses c ON c.id = p.course_id
	JOIN regulations g ON g.id = p.regulation_id`

const questionColumns = `id, paper_id, part, number, or_pair, option_label, text, answer,
	subdivisions, course_outcome, bloom_level, marks, created_at, updated_at`

// GetByID loads a paper together with its questions in print order.
// Returns pgx.ErrNoRows when the paper does not exist.
func (r *PaperRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuestionPaper, error) {
	p := &model.QuestionPaper{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+paperColumns+` `+paperJoins+` WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.FacultyID, &p.FacultyName, &p.AssignmentID, &p.CourseID, &p.CourseCode, &p.CourseTitle,
		&p.RegulationID, &p.RegulationName, &p.AcademicYear, &p.Semester, &p.ExamMonthYear,
		&p.CODescriptions[0], &p.CODescriptions[1], &p.CODescriptions[2], &p.CODescriptions[3], &p.CODescriptions[4],
		&p.Status, &p.ReviewComment, &p.ReviewedBy, &p.DocumentRef,
		&p.CreatedAt, &p.UpdatedAt, &p.SubmittedAt, &p.ReviewedAt)
	if err != nil {
		return nil, err
	}

	questions, err := r.listQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Questions = questions
	return p, nil
}

func (r *PaperRepository) listQuestions(ctx context.Context, paperID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM paper_questions
		 WHERE paper_id = $1
		 ORDER BY part, COALESCE(or_pair, number), option_label`, paperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var (
			q    model.Question
			subs []byte
		)
		if err := rows.Scan(&q.ID, &q.PaperID, &q.Part, &q.Number, &q.OrPair, &q.Option, &q.Text, &q.Answer,
			&subs, &q.CourseOutcome, &q.BloomLevel, &q.Marks, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(subs, &q.Subdivisions); err != nil {
			return nil, fmt.Errorf("decode subdivisions of question %s: %w", q.ID, err)
		}
		if q.Subdivisions == nil {
			q.Subdivisions = []model.Subdivision{}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// List returns paper summaries matching the filter, newest first, with the
// total number of matches.
func (r *PaperRepository) List(ctx context.Context, f model.PaperFilter, limit, offset int) ([]model.PaperSummary, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.FacultyID != nil {
		args = append(args, *f.FacultyID)
		conds = append(conds, "p.faculty_id = $"+strconv.Itoa(len(args)))
	}
	if f.CourseID != nil {
		args = append(args, *f.CourseID)
		conds = append(conds, "p.course_id = $"+strconv.Itoa(len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, "p.status = ANY($"+strconv.Itoa(len(args))+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// 1. Get total count
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM question_papers p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// 2. Get paginated data
	query := `SELECT p.id, p.faculty_id, a.name, c.code, c.title, p.academic_year, p.semester,
	                 p.exam_month_year, p.status, p.updated_at, p.submitted_at,
	                 (SELECT COUNT(*) FROM paper_questions q WHERE q.paper_id = p.id)
	          FROM question_papers p
	          JOIN accounts a ON a.id = p.faculty_id
	          JOIN courses c ON c.id = p.course_id` + where +
		` ORDER BY p.updated_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	papers := []model.PaperSummary{}
	for rows.Next() {
		var s model.PaperSummary
		if err := rows.Scan(&s.ID, &s.FacultyID, &s.FacultyName, &s.CourseCode, &s.CourseTitle, &s.AcademicYear,
			&s.Semester, &s.ExamMonthYear, &s.Status, &s.UpdatedAt, &s.SubmittedAt, &s.Questions); err != nil {
			return nil, 0, err
		}
		papers = append(papers, s)
	}
	return papers, total, rows.Err()
}

// Create inserts a new paper. Questions on the aggregate are ignored.
func (r *PaperRepository) Create(ctx context.Context, p *model.QuestionPaper) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO question_papers (id, faculty_id, assignment_id, course_id, regulation_id, academic_year,
		     semester, exam_month_year, co1_description, co2_description, co3_description, co4_description,
		     co5_description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.FacultyID, p.AssignmentID, p.CourseID, p.RegulationID, p.AcademicYear,
		p.Semester, p.ExamMonthYear, p.CODescriptions[0], p.CODescriptions[1], p.CODescriptions[2],
		p.CODescriptions[3], p.CODescriptions[4], p.Status, p.CreatedAt, p.UpdatedAt,
	)
	switch {
	case isUniqueViolation(err):
		return ErrAssignmentHasPaper
	case isForeignKeyViolation(err):
		return ErrReferencedRowAbsent
	}
	return err
}

// UpdateDetails writes the paper metadata while the paper is still a draft.
func (r *PaperRepository) UpdateDetails(ctx context.Context, p *model.QuestionPaper) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE question_papers
		 SET course_id = $1, regulation_id = $2, academic_year = $3, semester = $4, exam_month_year = $5,
		     co1_description = $6, co2_description = $7, co3_description = $8, co4_description = $9,
		     co5_description = $10, updated_at = $11
		 WHERE id = $12 AND status = $13`,
		p.CourseID, p.RegulationID, p.AcademicYear, p.Semester, p.ExamMonthYear,
		p.CODescriptions[0], p.CODescriptions[1], p.CODescriptions[2], p.CODescriptions[3],
		p.CODescriptions[4], p.UpdatedAt, p.ID, model.PaperStatusDraft,
	)
	if isForeignKeyViolation(err) {
		return ErrReferencedRowAbsent
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

// Delete removes a draft paper and, through the foreign keys, its questions
// and history.
func (r *PaperRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM question_papers WHERE id = $1 AND status = $2`, id, model.PaperStatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

// withDraftLock runs fn in a transaction holding a row lock on a paper that
// is still a draft, then bumps the paper's updated_at.
func (r *PaperRepository) withDraftLock(ctx context.Context, paperID uuid.UUID, now time.Time, fn func(tx pgx.Tx) error) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var status model.PaperStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM question_papers WHERE id = $1 FOR UPDATE`, paperID).Scan(&status)
		if err != nil {
			return err
		}
		if status != model.PaperStatusDraft {
			return ErrStatusConflict
		}
		if err := fn(tx); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE question_papers SET updated_at = $1 WHERE id = $2`, now, paperID)
		return err
	})
}

// InsertQuestion adds a question to a draft paper.
func (r *PaperRepository) InsertQuestion(ctx context.Context, q *model.Question) error {
	subs, err := json.Marshal(q.Subdivisions)
	if err != nil {
		return err
	}
	err = r.withDraftLock(ctx, q.PaperID, q.UpdatedAt, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO paper_questions (id, paper_id, part, number, or_pair, option_label, text, answer,
			     subdivisions, course_outcome, bloom_level, marks, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			q.ID, q.PaperID, q.Part, q.Number, q.OrPair, q.Option, q.Text, q.Answer,
			subs, q.CourseOutcome, q.BloomLevel, q.Marks, q.CreatedAt, q.UpdatedAt,
		)
		return err
	})
	if isUniqueViolation(err) {
		return model.ErrQuestionSlotTaken
	}
	return err
}

// UpdateQuestion replaces a question on a draft paper.
func (r *PaperRepository) UpdateQuestion(ctx context.Context, q *model.Question) error {
	subs, err := json.Marshal(q.Subdivisions)
	if err != nil {
		return err
	}
	err = r.withDraftLock(ctx, q.PaperID, q.UpdatedAt, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE paper_questions
			 SET part = $1, number = $2, or_pair = $3, option_label = $4, text = $5, answer = $6,
			     subdivisions = $7, course_outcome = $8, bloom_level = $9, marks = $10, updated_at = $11
			 WHERE id = $12 AND paper_id = $13`,
			q.Part, q.Number, q.OrPair, q.Option, q.Text, q.Answer,
			subs, q.CourseOutcome, q.BloomLevel, q.Marks, q.UpdatedAt, q.ID, q.PaperID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrQuestionNotFound
		}
		return nil
	})
	if isUniqueViolation(err) {
		return model.ErrQuestionSlotTaken
	}
	return err
}

// DeleteQuestion removes a question from a draft paper.
func (r *PaperRepository) DeleteQuestion(ctx context.Context, paperID, questionID uuid.UUID, now time.Time) error {
	return r.withDraftLock(ctx, paperID, now, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM paper_questions WHERE id = $1 AND paper_id = $2`, questionID, paperID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrQuestionNotFound
		}
		return nil
	})
}

// UpdateStatus persists a workflow transition. The write only succeeds when
// the stored status still equals from and the row has not been touched since
// it was read at loadedAt. The audit row is written in the same transaction.
func (r *PaperRepository) UpdateStatus(ctx context.Context, p *model.QuestionPaper, from model.PaperStatus, loadedAt time.Time, actorID int, note string) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE question_papers
			 SET status = $1, review_comment = $2, reviewed_by = $3, document_ref = $4,
			     updated_at = $5, submitted_at = $6, reviewed_at = $7
			 WHERE id = $8 AND status = $9 AND updated_at = $10`,
			p.Status, p.ReviewComment, p.ReviewedBy, p.DocumentRef,
			p.UpdatedAt, p.SubmittedAt, p.ReviewedAt, p.ID, from, loadedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrStatusConflict
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO paper_transitions (paper_id, from_status, to_status, actor_id, note, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, from, p.Status, actorID, note, p.UpdatedAt,
		)
		return err
	})
}

// ListTransitions returns the status history of a paper, oldest first.
func (r *PaperRepository) ListTransitions(ctx context.Context, paperID uuid.UUID) ([]model.PaperTransition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.paper_id, t.from_status, t.to_status, t.actor_id, a.name, t.note, t.created_at
		 FROM paper_transitions t
		 JOIN accounts a ON a.id = t.actor_id
		 WHERE t.paper_id = $1
		 ORDER BY t.created_at, t.id`, paperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []model.PaperTransition{}
	for rows.Next() {
		var t model.PaperTransition
		if err := rows.Scan(&t.ID, &t.PaperID, &t.FromStatus, &t.ToStatus, &t.ActorID, &t.ActorName,
			&t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, t)
	}
	return history, rows.Err()
}

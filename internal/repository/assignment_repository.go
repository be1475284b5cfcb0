package repository

import (
	"context"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles paper setting assignments.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

const assignmentSelect = `SELECT s.id, s.course_id, c.code, c.title, s.faculty_id, a.name, s.assigned_by,
	        s.exam_type, s.deadline, s.instructions, p.id, p.status, s.created_at
	 FROM paper_assignments s
	 JOIN courses c ON c.id = s.course_id
	 JOIN accounts a ON a.id = s.faculty_id
	 LEFT JOIN question_papers p ON p.assignment_id = s.id`

func scanAssignment(row interface{ Scan(...any) error }) (*model.PaperAssignment, error) {
	s := &model.PaperAssignment{}
	err := row.Scan(&s.ID, &s.CourseID, &s.CourseCode, &s.CourseTitle, &s.FacultyID, &s.FacultyName,
		&s.AssignedBy, &s.ExamType, &s.Deadline, &s.Instructions, &s.PaperID, &s.PaperStatus, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves an assignment with the status of its linked paper.
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PaperAssignment, error) {
	return scanAssignment(r.pool.QueryRow(ctx, assignmentSelect+` WHERE s.id = $1`, id))
}

// List returns assignments ordered by deadline. A nil facultyID lists all.
func (r *AssignmentRepository) List(ctx context.Context, facultyID *int) ([]model.PaperAssignment, error) {
	query := assignmentSelect
	var args []interface{}
	if facultyID != nil {
		query += ` WHERE s.faculty_id = $1`
		args = append(args, *facultyID)
	}
	query += ` ORDER BY s.deadline, s.created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []model.PaperAssignment{}
	for rows.Next() {
		s, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *s)
	}
	return assignments, rows.Err()
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, s *model.PaperAssignment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO paper_assignments (id, course_id, faculty_id, assigned_by, exam_type, deadline, instructions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.CourseID, s.FacultyID, s.AssignedBy, s.ExamType, s.Deadline, s.Instructions, s.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return ErrReferencedRowAbsent
	}
	return err
}

// Delete removes an assignment that has no paper yet.
func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM paper_assignments s
		 WHERE s.id = $1
		   AND NOT EXISTS (SELECT 1 FROM question_papers p WHERE p.assignment_id = s.id)`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAssignmentHasPaper
	}
	return nil
}

package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository handles regulation and course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// ListRegulations returns every regulation, newest first.
func (r *CourseRepository) ListRegulations(ctx context.Context) ([]model.Regulation, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, year, is_active FROM regulations ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regulations := []model.Regulation{}
	for rows.Next() {
		var g model.Regulation
		if err := rows.Scan(&g.ID, &g.Name, &g.Year, &g.IsActive); err != nil {
			return nil, err
		}
		regulations = append(regulations, g)
	}
	return regulations, rows.Err()
}

// ListCourses returns courses matching the filter ordered by semester and code.
func (r *CourseRepository) ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.RegulationID > 0 {
		args = append(args, f.RegulationID)
		conds = append(conds, "c.regulation_id = $"+strconv.Itoa(len(args)))
	}
	if f.Semester > 0 {
		args = append(args, f.Semester)
		conds = append(conds, "c.semester = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT c.id, c.code, c.title, c.regulation_id, g.name, c.semester, c.created_at
	          FROM courses c JOIN regulations g ON g.id = c.regulation_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.semester, c.code"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.RegulationID, &c.RegulationName, &c.Semester, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetCourse retrieves a course by ID.
func (r *CourseRepository) GetCourse(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT c.id, c.code, c.title, c.regulation_id, g.name, c.semester, c.created_at
		 FROM courses c JOIN regulations g ON g.id = c.regulation_id
		 WHERE c.id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Title, &c.RegulationID, &c.RegulationName, &c.Semester, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCourse inserts a new course.
func (r *CourseRepository) CreateCourse(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (code, title, regulation_id, semester)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Code, c.Title, c.RegulationID, c.Semester,
	).Scan(&c.ID, &c.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return ErrDuplicateCourse
	case isForeignKeyViolation(err):
		return ErrReferencedRowAbsent
	}
	return err
}

package repository

import (
	"context"
	"time"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetPaperStatusCounts retrieves the distribution of papers by status.
// A nil facultyID counts every paper. Statuses without papers report zero.
func (r *DashboardRepository) GetPaperStatusCounts(ctx context.Context, facultyID *int) (map[model.PaperStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM question_papers`
	var args []interface{}
	if facultyID != nil {
		query += ` WHERE faculty_id = $1`
		args = append(args, *facultyID)
	}
	query += ` GROUP BY status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.PaperStatus]int, len(model.PaperStatuses))
	for _, s := range model.PaperStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status model.PaperStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// GetSummaryCounts retrieves the remaining dashboard metrics for one account:
// papers waiting in the review queue, assignments without an approved paper
// (and how many of them are overdue), and unread notifications. A nil
// facultyID counts assignments of every faculty member.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context, accountID int, facultyID *int, now time.Time) (awaitingReview, open, overdue, unread int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM question_papers WHERE status IN ($1, $2)),
			(SELECT COUNT(*) FROM paper_assignments s
			   LEFT JOIN question_papers p ON p.assignment_id = s.id
			   WHERE (p.status IS NULL OR p.status <> $3)
			     AND ($4::int IS NULL OR s.faculty_id = $4)),
			(SELECT COUNT(*) FROM paper_assignments s
			   LEFT JOIN question_papers p ON p.assignment_id = s.id
			   WHERE (p.status IS NULL OR p.status <> $3)
			     AND ($4::int IS NULL OR s.faculty_id = $4)
			     AND s.deadline < $5),
			(SELECT COUNT(*) FROM notifications WHERE recipient_id = $6 AND is_read = FALSE)`,
		model.PaperStatusSubmitted, model.PaperStatusUnderReview, model.PaperStatusApproved,
		facultyID, now, accountID,
	).Scan(&awaitingReview, &open, &overdue, &unread)
	return
}

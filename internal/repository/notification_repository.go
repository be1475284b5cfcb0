package repository

import (
	"context"
	"time"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles in-app notification data access.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// ListByRecipient returns a page of notifications for one account, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int, unreadOnly bool, limit, offset int) ([]model.Notification, int, error) {
	where := ` WHERE recipient_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, recipientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, recipient_id, sender_id, type, title, message, link, is_read, read_at, created_at
		 FROM notifications`+where+`
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, recipientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Title, &n.Message, &n.Link,
			&n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

// CountUnread returns the number of unread notifications for an account.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`, recipientID,
	).Scan(&n)
	return n, err
}

// MarkRead marks one notification as read. It reports false when the
// notification does not belong to the recipient.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID int, id int64, now time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, $1)
		 WHERE id = $2 AND recipient_id = $3`, now, id, recipientID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead marks every unread notification of an account as read and
// returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = $1
		 WHERE recipient_id = $2 AND is_read = FALSE`, now, recipientID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BulkInsert writes a batch of notifications with a single UNNEST insert.
func (r *NotificationRepository) BulkInsert(ctx context.Context, batch []model.Notification) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	recipients := make([]int, n)
	senders := make([]*int, n)
	types := make([]string, n)
	titles := make([]string, n)
	messages := make([]string, n)
	links := make([]string, n)
	createdAts := make([]time.Time, n)
	for i, m := range batch {
		recipients[i] = m.RecipientID
		senders[i] = m.SenderID
		types[i] = string(m.Type)
		titles[i] = m.Title
		messages[i] = m.Message
		links[i] = m.Link
		createdAts[i] = m.CreatedAt
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (recipient_id, sender_id, type, title, message, link, created_at)
		 SELECT * FROM UNNEST(
			$1::int[],
			$2::int[],
			$3::varchar[],
			$4::varchar[],
			$5::text[],
			$6::varchar[],
			$7::timestamptz[]
		 )`,
		recipients, senders, types, titles, messages, links, createdAts,
	)
	return err
}

// Insert writes a single notification. A recipient that no longer exists
// yields ErrReferencedRowAbsent.
func (r *NotificationRepository) Insert(ctx context.Context, m *model.Notification) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (recipient_id, sender_id, type, title, message, link, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		m.RecipientID, m.SenderID, m.Type, m.Title, m.Message, m.Link, m.CreatedAt,
	).Scan(&m.ID)
	if isForeignKeyViolation(err) {
		return ErrReferencedRowAbsent
	}
	return err
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ReviewerLookup finds the accounts that review submitted papers.
type ReviewerLookup interface {
	ListByPermission(ctx context.Context, code model.Permission) ([]model.Account, error)
}

// NotificationService fans out in-app notifications. New notifications are
// queued for the persistence worker and published live to connected clients.
type NotificationService struct {
	repo      *repository.NotificationRepository
	reviewers ReviewerLookup
	rdb       *redis.Client
	now       func() time.Time
	log       zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo *repository.NotificationRepository, reviewers ReviewerLookup, rdb *redis.Client, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		repo:      repo,
		reviewers: reviewers,
		rdb:       rdb,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log.With().Str("component", "notification_service").Logger(),
	}
}

// PaperTransitioned notifies everyone affected by a paper status change.
func (s *NotificationService) PaperTransitioned(ctx context.Context, ev PaperEvent) error {
	var reviewers []model.Account
	if ev.Paper.Status == model.PaperStatusSubmitted {
		var err error
		reviewers, err = s.reviewers.ListByPermission(ctx, model.PermissionPapersReview)
		if err != nil {
			return fmt.Errorf("list reviewers: %w", err)
		}
	}
	return s.Dispatch(ctx, PaperNotifications(ev, reviewers, s.now()))
}

// AssignmentCreated tells a faculty member about a new paper setting assignment.
func (s *NotificationService) AssignmentCreated(ctx context.Context, a *model.PaperAssignment, assignedBy Actor) error {
	sender := assignedBy.ID
	return s.Dispatch(ctx, []model.Notification{{
		RecipientID: a.FacultyID,
		SenderID:    &sender,
		Type:        model.NotificationReminder,
		Title:       "New question paper assignment",
		Message: fmt.Sprintf("You have been asked to set the %s paper for %s - %s by %s.",
			a.ExamType, a.CourseCode, a.CourseTitle, a.Deadline.Format("02 Jan 2006")),
		Link:      "/assignments",
		CreatedAt: s.now(),
	}})
}

// PaperNotifications builds the notifications for a status change. The
// acting account is never notified about its own action.
func PaperNotifications(ev PaperEvent, reviewers []model.Account, now time.Time) []model.Notification {
	p := ev.Paper
	paper := fmt.Sprintf("%s - %s (%s)", p.CourseCode, p.CourseTitle, p.ExamMonthYear)
	sender := ev.Actor.ID
	link := "/papers/" + p.ID.String()

	var (
		recipients []int
		typ        = model.NotificationInfo
		title      string
		message    string
	)

	switch p.Status {
	case model.PaperStatusSubmitted:
		for _, r := range reviewers {
			recipients = append(recipients, r.ID)
		}
		title = "Question paper submitted for review"
		message = fmt.Sprintf("%s submitted %s.", actorName(ev.Actor), paper)
	case model.PaperStatusUnderReview:
		recipients = []int{p.FacultyID}
		title = "Review started"
		message = fmt.Sprintf("%s started reviewing %s.", actorName(ev.Actor), paper)
	case model.PaperStatusApproved:
		recipients = []int{p.FacultyID}
		title = "Question paper approved"
		message = fmt.Sprintf("%s was approved.", paper)
		if p.ReviewComment != "" {
			message += " Comment: " + p.ReviewComment
		}
	case model.PaperStatusRejected:
		recipients = []int{p.FacultyID}
		typ = model.NotificationWarning
		title = "Question paper rejected"
		message = fmt.Sprintf("%s was rejected. Reason: %s", paper, p.ReviewComment)
	case model.PaperStatusDraft:
		if ev.PreviousReviewer != nil {
			recipients = []int{*ev.PreviousReviewer}
		}
		title = "Rejected paper reopened"
		message = fmt.Sprintf("%s reopened %s for revision.", actorName(ev.Actor), paper)
	}

	seen := make(map[int]bool, len(recipients))
	out := make([]model.Notification, 0, len(recipients))
	for _, id := range recipients {
		if id == ev.Actor.ID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, model.Notification{
			RecipientID: id,
			SenderID:    &sender,
			Type:        typ,
			Title:       title,
			Message:     message,
			Link:        link,
			CreatedAt:   now,
		})
	}
	return out
}

func actorName(a Actor) string {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Sprintf("Account #%d", a.ID)
	}
	return a.Name
}

// Dispatch queues notifications for persistence and publishes them on each
// recipient's live channel.
func (s *NotificationService) Dispatch(ctx context.Context, batch []model.Notification) error {
	if len(batch) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, n := range batch {
		raw, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("encode notification: %w", err)
		}
		pipe.RPush(ctx, config.WorkerKey.PersistNotificationsQueue, raw)
		pipe.Publish(ctx, config.CacheKey.NotificationChannel(n.RecipientID), raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("dispatch notifications: %w", err)
	}

	s.log.Debug().Int("count", len(batch)).Msg("Notifications dispatched")
	return nil
}

// List returns a page of an account's notifications.
func (s *NotificationService) List(ctx context.Context, accountID int, q model.NotificationListQuery) ([]model.Notification, int, error) {
	return s.repo.ListByRecipient(ctx, accountID, q.UnreadOnly, q.PerPage, (q.Page-1)*q.PerPage)
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, accountID int) (int, error) {
	return s.repo.CountUnread(ctx, accountID)
}

// MarkRead marks one notification as read. It reports false if the
// notification does not exist or belongs to someone else.
func (s *NotificationService) MarkRead(ctx context.Context, accountID int, id int64) (bool, error) {
	return s.repo.MarkRead(ctx, accountID, id, s.now())
}

// MarkAllRead marks every notification of the account as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, accountID int) (int64, error) {
	return s.repo.MarkAllRead(ctx, accountID, s.now())
}

// Subscribe opens the live notification channel of an account. The caller
// closes the subscription.
func (s *NotificationService) Subscribe(ctx context.Context, accountID int) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.NotificationChannel(accountID))
}

package service

import (
	"strings"
	"testing"
	"time"

	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/google/uuid"
)

func TestPaperNotifications(t *testing.T) {
	now := time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)
	rejectedBy := 2
	reviewers := []model.Account{{ID: 2}, {ID: 3}, {ID: 7}}

	paper := func(status model.PaperStatus, comment string) *model.QuestionPaper {
		return &model.QuestionPaper{
			ID:            uuid.New(),
			FacultyID:     7,
			CourseCode:    "CS3301",
			CourseTitle:   "Data Structures",
			ExamMonthYear: "NOV/DEC 2024",
			Status:        status,
			ReviewComment: comment,
		}
	}

	tests := []struct {
		name       string
		ev         PaperEvent
		wantTo     []int
		wantType   model.NotificationType
		wantInText string
	}{
		{
			name:       "submitted goes to every reviewer except the author",
			ev:         PaperEvent{Paper: paper(model.PaperStatusSubmitted, ""), From: model.PaperStatusDraft, Actor: faculty},
			wantTo:     []int{2, 3},
			wantType:   model.NotificationInfo,
			wantInText: "Dr. Meena submitted CS3301 - Data Structures (NOV/DEC 2024)",
		},
		{
			name:       "claim tells the author",
			ev:         PaperEvent{Paper: paper(model.PaperStatusUnderReview, ""), From: model.PaperStatusSubmitted, Actor: reviewer},
			wantTo:     []int{7},
			wantType:   model.NotificationInfo,
			wantInText: "started reviewing",
		},
		{
			name:       "rejection carries the reason",
			ev:         PaperEvent{Paper: paper(model.PaperStatusRejected, "Too many L1 questions"), From: model.PaperStatusUnderReview, Actor: reviewer},
			wantTo:     []int{7},
			wantType:   model.NotificationWarning,
			wantInText: "Reason: Too many L1 questions",
		},
		{
			name:       "approval with comment",
			ev:         PaperEvent{Paper: paper(model.PaperStatusApproved, "Well balanced"), From: model.PaperStatusUnderReview, Actor: reviewer},
			wantTo:     []int{7},
			wantType:   model.NotificationInfo,
			wantInText: "Comment: Well balanced",
		},
		{
			name:       "reopen tells the rejecting reviewer",
			ev:         PaperEvent{Paper: paper(model.PaperStatusDraft, ""), From: model.PaperStatusRejected, Actor: faculty, PreviousReviewer: &rejectedBy},
			wantTo:     []int{2},
			wantType:   model.NotificationInfo,
			wantInText: "reopened",
		},
		{
			name:   "reopen without a known reviewer notifies nobody",
			ev:     PaperEvent{Paper: paper(model.PaperStatusDraft, ""), From: model.PaperStatusRejected, Actor: faculty},
			wantTo: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaperNotifications(tt.ev, reviewers, now)
			if len(got) != len(tt.wantTo) {
				t.Fatalf("got %d notifications, want %d: %+v", len(got), len(tt.wantTo), got)
			}
			for i, n := range got {
				if n.RecipientID != tt.wantTo[i] {
					t.Errorf("recipient[%d] = %d, want %d", i, n.RecipientID, tt.wantTo[i])
				}
				if n.Type != tt.wantType {
					t.Errorf("type = %s, want %s", n.Type, tt.wantType)
				}
				if !strings.Contains(n.Message, tt.wantInText) {
					t.Errorf("message %q does not contain %q", n.Message, tt.wantInText)
				}
				if n.SenderID == nil || *n.SenderID != tt.ev.Actor.ID {
					t.Errorf("sender = %v, want %d", n.SenderID, tt.ev.Actor.ID)
				}
				if n.Link != "/papers/"+tt.ev.Paper.ID.String() || !n.CreatedAt.Equal(now) {
					t.Errorf("link/created_at = %q %v", n.Link, n.CreatedAt)
				}
			}
		})
	}
}

func TestActorCan(t *testing.T) {
	if !reviewer.Can(model.PermissionPapersReview) || faculty.Can(model.PermissionPapersReview) {
		t.Error("permission checks do not match the granted codes")
	}
	if !reviewer.canReadAll() || faculty.canReadAll() {
		t.Error("read-all scope does not match the granted codes")
	}
	if actorName(Actor{ID: 4}) != "Account #4" {
		t.Errorf("fallback actor name = %q", actorName(Actor{ID: 4}))
	}
}

package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

func newSamplePaper(t *testing.T) *QuestionPaper {
	t.Helper()
	p := NewQuestionPaper(7, PaperDetails{
		CourseID:      1,
		RegulationID:  1,
		AcademicYear:  "2024-2025",
		Semester:      5,
		ExamMonthYear: "NOV/DEC 2024",
	}, testNow)
	for _, q := range SampleQuestions() {
		if _, err := p.AddQuestion(q); err != nil {
			t.Fatalf("AddQuestion(%s): %v", q.Slot(), err)
		}
	}
	return p
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to PaperStatus
		want     bool
	}{
		{PaperStatusDraft, PaperStatusSubmitted, true},
		{PaperStatusSubmitted, PaperStatusUnderReview, true},
		{PaperStatusUnderReview, PaperStatusApproved, true},
		{PaperStatusUnderReview, PaperStatusRejected, true},
		{PaperStatusRejected, PaperStatusDraft, true},
		{PaperStatusDraft, PaperStatusApproved, false},
		{PaperStatusSubmitted, PaperStatusApproved, false},
		{PaperStatusApproved, PaperStatusDraft, false},
		{PaperStatusApproved, PaperStatusRejected, false},
		{PaperStatusRejected, PaperStatusSubmitted, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestWorkflow_FullCycle(t *testing.T) {
	p := newSamplePaper(t)

	if err := p.Submit(testNow); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if p.Status != PaperStatusSubmitted || p.SubmittedAt == nil {
		t.Fatalf("after submit: status=%s submitted_at=%v", p.Status, p.SubmittedAt)
	}

	if err := p.Claim(3, testNow); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := p.Reject(3, "   ", testNow); err == nil {
		t.Fatal("Reject with blank reason succeeded")
	} else {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Reject blank reason error = %T, want *ValidationError", err)
		}
	}
	if p.Status != PaperStatusUnderReview {
		t.Fatalf("status after failed reject = %s, want UNDER_REVIEW", p.Status)
	}

	if err := p.Reject(3, "Part C is too easy", testNow); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if p.Status != PaperStatusRejected || p.ReviewComment != "Part C is too easy" || p.ReviewedAt == nil {
		t.Fatalf("after reject: %+v", p)
	}

	if err := p.Reopen(testNow); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if p.Status != PaperStatusDraft {
		t.Fatalf("status after reopen = %s, want DRAFT", p.Status)
	}
	if p.ReviewComment == "" {
		t.Error("rejection reason should stay visible after reopen")
	}

	for _, step := range []func() error{
		func() error { return p.Submit(testNow) },
		func() error { return p.Claim(4, testNow) },
		func() error { return p.Approve(4, "", testNow) },
	} {
		if err := step(); err != nil {
			t.Fatalf("second cycle: %v", err)
		}
	}
	if p.Status != PaperStatusApproved || *p.ReviewedBy != 4 {
		t.Fatalf("after approve: status=%s reviewed_by=%v", p.Status, p.ReviewedBy)
	}
}

func TestWorkflow_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status PaperStatus
		act    func(p *QuestionPaper) error
	}{
		{"claim a draft", PaperStatusDraft, func(p *QuestionPaper) error { return p.Claim(1, testNow) }},
		{"approve a submitted paper", PaperStatusSubmitted, func(p *QuestionPaper) error { return p.Approve(1, "ok", testNow) }},
		{"reject a draft", PaperStatusDraft, func(p *QuestionPaper) error { return p.Reject(1, "no", testNow) }},
		{"submit twice", PaperStatusSubmitted, func(p *QuestionPaper) error { return p.Submit(testNow) }},
		{"reopen an approved paper", PaperStatusApproved, func(p *QuestionPaper) error { return p.Reopen(testNow) }},
		{"reopen under review", PaperStatusUnderReview, func(p *QuestionPaper) error { return p.Reopen(testNow) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newSamplePaper(t)
			p.Status = tt.status

			err := tt.act(p)
			var se *InvalidStateError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *InvalidStateError", err)
			}
			if se.Current != tt.status {
				t.Errorf("Current = %s, want %s", se.Current, tt.status)
			}
			if p.Status != tt.status {
				t.Errorf("status changed to %s", p.Status)
			}
		})
	}
}

func TestSubmit_WithViolationsStaysDraft(t *testing.T) {
	p := newSamplePaper(t)
	first := p.Questions[0].ID
	if err := p.RemoveQuestion(first); err != nil {
		t.Fatalf("RemoveQuestion: %v", err)
	}

	err := p.Submit(testNow)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit error = %v, want *ValidationError", err)
	}
	if len(ve.Violations) == 0 {
		t.Error("ValidationError carries no violations")
	}
	if p.Status != PaperStatusDraft || p.SubmittedAt != nil {
		t.Errorf("status = %s submitted_at = %v, want DRAFT and nil", p.Status, p.SubmittedAt)
	}
}

func TestQuestionPaper_EditGuards(t *testing.T) {
	p := newSamplePaper(t)
	if err := p.Submit(testNow); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var se *InvalidStateError
	if _, err := p.AddQuestion(Question{Part: PartA, Number: 1}); !errors.As(err, &se) {
		t.Errorf("AddQuestion after submit = %v, want *InvalidStateError", err)
	}
	q := p.Questions[0]
	q.Text = "changed"
	if _, err := p.UpdateQuestion(q); !errors.As(err, &se) {
		t.Errorf("UpdateQuestion after submit = %v, want *InvalidStateError", err)
	}
	if err := p.RemoveQuestion(q.ID); !errors.As(err, &se) {
		t.Errorf("RemoveQuestion after submit = %v, want *InvalidStateError", err)
	}
	if err := p.UpdateDetails(PaperDetails{}, testNow); !errors.As(err, &se) {
		t.Errorf("UpdateDetails after submit = %v, want *InvalidStateError", err)
	}
	if err := p.EnsureDeletable(); !errors.As(err, &se) {
		t.Errorf("EnsureDeletable after submit = %v, want *InvalidStateError", err)
	}
	if p.Questions[0].Text == "changed" {
		t.Error("question was modified on a submitted paper")
	}
}

func TestQuestionPaper_Slots(t *testing.T) {
	p := newSamplePaper(t)

	if _, err := p.AddQuestion(Question{Part: PartA, Number: 4, Marks: 2}); !errors.Is(err, ErrQuestionSlotTaken) {
		t.Errorf("duplicate slot error = %v, want ErrQuestionSlotTaken", err)
	}

	a, b := p.OrPair(12)
	if a == nil || b == nil || a.Option != "a" || b.Option != "b" {
		t.Fatalf("OrPair(12) = %v, %v", a, b)
	}

	// Moving 12 (b) onto 12 (a) must be refused.
	moved := *b
	moved.Option = "a"
	if _, err := p.UpdateQuestion(moved); !errors.Is(err, ErrQuestionSlotTaken) {
		t.Errorf("UpdateQuestion into occupied slot = %v, want ErrQuestionSlotTaken", err)
	}

	if _, err := p.UpdateQuestion(Question{ID: uuid.New(), Part: PartA, Number: 1}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("UpdateQuestion unknown = %v, want ErrQuestionNotFound", err)
	}
	if err := p.RemoveQuestion(uuid.New()); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("RemoveQuestion unknown = %v, want ErrQuestionNotFound", err)
	}
}

func TestQuestionRequest_ToQuestion(t *testing.T) {
	req := QuestionRequest{Part: PartB, Number: 13, Option: "b", Text: "x", Marks: 13}
	q := req.ToQuestion()
	if q.OrPair == nil || *q.OrPair != 13 {
		t.Fatalf("OrPair = %v, want 13", q.OrPair)
	}
	if q.Slot() != "B-13b" {
		t.Errorf("Slot = %s, want B-13b", q.Slot())
	}

	pair := 12
	a := QuestionRequest{Part: PartA, Number: 3, OrPair: &pair, Option: "a"}.ToQuestion()
	if a.OrPair != nil || a.Option != "" {
		t.Errorf("Part A question kept pair data: %+v", a)
	}
	if a.Subdivisions == nil {
		t.Error("Subdivisions should default to an empty slice")
	}
}

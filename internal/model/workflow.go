package model

import (
	"strings"
	"time"
)

// PaperStatus enumerates the review states of a question paper.
type PaperStatus string

const (
	PaperStatusDraft       PaperStatus = "DRAFT"
	PaperStatusSubmitted   PaperStatus = "SUBMITTED"
	PaperStatusUnderReview PaperStatus = "UNDER_REVIEW"
	PaperStatusApproved    PaperStatus = "APPROVED"
	PaperStatusRejected    PaperStatus = "REJECTED"
)

// PaperStatuses lists every status in workflow order.
var PaperStatuses = []PaperStatus{
	PaperStatusDraft,
	PaperStatusSubmitted,
	PaperStatusUnderReview,
	PaperStatusApproved,
	PaperStatusRejected,
}

func (s PaperStatus) Valid() bool {
	for _, st := range PaperStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// PaperAction is an operation that moves a paper through the workflow or
// edits it.
type PaperAction string

const (
	ActionEdit    PaperAction = "edit"
	ActionDelete  PaperAction = "delete"
	ActionSubmit  PaperAction = "submit"
	ActionClaim   PaperAction = "claim"
	ActionApprove PaperAction = "approve"
	ActionReject  PaperAction = "reject"
	ActionReopen  PaperAction = "reopen"
)

type transition struct {
	from PaperStatus
	to   PaperStatus
}

// transitions is the complete edge set of the review state machine.
// DRAFT → SUBMITTED → UNDER_REVIEW → APPROVED | REJECTED, REJECTED → DRAFT.
var transitions = map[PaperAction]transition{
	ActionSubmit:  {from: PaperStatusDraft, to: PaperStatusSubmitted},
	ActionClaim:   {from: PaperStatusSubmitted, to: PaperStatusUnderReview},
	ActionApprove: {from: PaperStatusUnderReview, to: PaperStatusApproved},
	ActionReject:  {from: PaperStatusUnderReview, to: PaperStatusRejected},
	ActionReopen:  {from: PaperStatusRejected, to: PaperStatusDraft},
}

// CanTransition reports whether the workflow has an edge from one status to another.
func CanTransition(from, to PaperStatus) bool {
	for _, t := range transitions {
		if t.from == from && t.to == to {
			return true
		}
	}
	return false
}

// TargetStatus returns the status an action leads to.
func TargetStatus(action PaperAction) (PaperStatus, bool) {
	t, ok := transitions[action]
	return t.to, ok
}

func (p *QuestionPaper) apply(action PaperAction) error {
	t, ok := transitions[action]
	if !ok || p.Status != t.from {
		var allowed []PaperStatus
		if ok {
			allowed = []PaperStatus{t.from}
		}
		return &InvalidStateError{Action: action, Current: p.Status, Allowed: allowed}
	}
	p.Status = t.to
	return nil
}

func (p *QuestionPaper) guard(action PaperAction) error {
	t := transitions[action]
	if p.Status != t.from {
		return &InvalidStateError{Action: action, Current: p.Status, Allowed: []PaperStatus{t.from}}
	}
	return nil
}

// Submit validates the paper and moves it to SUBMITTED. A paper with
// violations stays in DRAFT and a *ValidationError lists every problem.
func (p *QuestionPaper) Submit(now time.Time) error {
	if err := p.guard(ActionSubmit); err != nil {
		return err
	}
	if violations := p.Validate(); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	if err := p.apply(ActionSubmit); err != nil {
		return err
	}
	p.SubmittedAt = &now
	p.UpdatedAt = now
	return nil
}

// Claim records that a reviewer has started reviewing a submitted paper.
func (p *QuestionPaper) Claim(reviewerID int, now time.Time) error {
	if err := p.apply(ActionClaim); err != nil {
		return err
	}
	p.ReviewedBy = &reviewerID
	p.UpdatedAt = now
	return nil
}

// Approve accepts the paper. The comment is optional.
func (p *QuestionPaper) Approve(reviewerID int, comment string, now time.Time) error {
	if err := p.apply(ActionApprove); err != nil {
		return err
	}
	p.ReviewComment = strings.TrimSpace(comment)
	p.ReviewedBy = &reviewerID
	p.ReviewedAt = &now
	p.UpdatedAt = now
	return nil
}

// Reject sends the paper back to its author. A non-blank reason is required.
func (p *QuestionPaper) Reject(reviewerID int, reason string, now time.Time) error {
	if err := p.guard(ActionReject); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &ValidationError{Violations: []string{"a reason is required to reject a paper"}}
	}
	if err := p.apply(ActionReject); err != nil {
		return err
	}
	p.ReviewComment = reason
	p.ReviewedBy = &reviewerID
	p.ReviewedAt = &now
	p.UpdatedAt = now
	return nil
}

// Reopen returns a rejected paper to DRAFT so the author can revise it. The
// rejection reason stays visible until the next review decision.
func (p *QuestionPaper) Reopen(now time.Time) error {
	if err := p.apply(ActionReopen); err != nil {
		return err
	}
	p.ReviewedBy = nil
	p.ReviewedAt = nil
	p.UpdatedAt = now
	return nil
}

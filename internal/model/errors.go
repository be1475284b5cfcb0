package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrQuestionNotFound  = errors.New("question not found on paper")
	ErrQuestionSlotTaken = errors.New("another question already occupies this slot")
)

// ValidationError is returned when a paper or a review decision fails its
// content rules. The caller fixes the input and tries again.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// InvalidStateError is returned when an action is not allowed from the
// paper's current status.
type InvalidStateError struct {
	Action  PaperAction
	Current PaperStatus
	Allowed []PaperStatus
}

func (e *InvalidStateError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot %s a paper in status %s (allowed from: %s)",
		e.Action, e.Current, strings.Join(allowed, ", "))
}

// DocumentError wraps an I/O failure while rendering or persisting the
// generated paper document. The operation is safe to retry.
type DocumentError struct {
	Op  string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

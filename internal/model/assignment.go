package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamType is the examination a paper is set for.
type ExamType string

const (
	ExamTypeCAT1     ExamType = "CAT1"
	ExamTypeCAT2     ExamType = "CAT2"
	ExamTypeModel    ExamType = "MODEL"
	ExamTypeSemester ExamType = "SEMESTER"
)

// PaperAssignment records that a head of department asked a faculty member
// to set the paper for a course.
type PaperAssignment struct {
	ID           uuid.UUID    `json:"id"`
	CourseID     int          `json:"course_id"`
	CourseCode   string       `json:"course_code"`
	CourseTitle  string       `json:"course_title"`
	FacultyID    int          `json:"faculty_id"`
	FacultyName  string       `json:"faculty_name"`
	AssignedBy   int          `json:"assigned_by"`
	ExamType     ExamType     `json:"exam_type"`
	Deadline     time.Time    `json:"deadline"`
	Instructions string       `json:"instructions,omitempty"`
	PaperID      *uuid.UUID   `json:"paper_id,omitempty"`
	PaperStatus  *PaperStatus `json:"paper_status,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Overdue reports whether the deadline passed without an approved paper.
func (a *PaperAssignment) Overdue(now time.Time) bool {
	if a.PaperStatus != nil && *a.PaperStatus == PaperStatusApproved {
		return false
	}
	return now.After(a.Deadline)
}

// CreateAssignmentRequest is the payload for assigning paper setting.
type CreateAssignmentRequest struct {
	CourseID     int       `json:"course_id" binding:"required,min=1"`
	FacultyID    int       `json:"faculty_id" binding:"required,min=1"`
	ExamType     ExamType  `json:"exam_type" binding:"required,oneof=CAT1 CAT2 MODEL SEMESTER"`
	Deadline     time.Time `json:"deadline" binding:"required"`
	Instructions string    `json:"instructions" binding:"omitempty,max=4000"`
}

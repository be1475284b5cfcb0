package model

import "time"

// Regulation is a curriculum version, e.g. "R2021".
type Regulation struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
	IsActive bool   `json:"is_active"`
}

// Course is a subject offered under a regulation.
type Course struct {
	ID             int       `json:"id"`
	Code           string    `json:"code"`
	Title          string    `json:"title"`
	RegulationID   int       `json:"regulation_id"`
	RegulationName string    `json:"regulation_name,omitempty"`
	Semester       int       `json:"semester"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for adding a course.
type CreateCourseRequest struct {
	Code         string `json:"code" binding:"required,course_code"`
	Title        string `json:"title" binding:"required,min=3,max=255"`
	RegulationID int    `json:"regulation_id" binding:"required,min=1"`
	Semester     int    `json:"semester" binding:"required,min=1,max=8"`
}

// CourseFilter narrows a course listing. Zero values match everything.
type CourseFilter struct {
	RegulationID int `form:"regulation_id" binding:"omitempty,min=1"`
	Semester     int `form:"semester" binding:"omitempty,min=1,max=8"`
}

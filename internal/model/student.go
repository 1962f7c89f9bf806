package model

import (
	"math"
	"time"
)

// Student is an enrolled student, optionally attached to one course.
type Student struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CourseID  *string   `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseRef returns the referenced course id, or "" when unassigned.
func (s Student) CourseRef() string {
	if s.CourseID == nil {
		return ""
	}
	return *s.CourseID
}

// StudentPatch carries a partial student update. Nil fields are left untouched;
// a CourseID pointing at "" clears the course reference.
type StudentPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	CourseID *string `json:"course_id"`
}

// Student list sort orders.
const (
	SortByID   = "id"
	SortByName = "name"
)

// StudentQuery selects one page of the student listing.
type StudentQuery struct {
	Search  string
	SortBy  string
	Page    int
	PerPage int
}

// MaxOffset caps how many rows a page request may skip. It fits a 32-bit int
// and a PostgreSQL bigint.
const MaxOffset = math.MaxInt32

// Offset returns the number of rows preceding the requested page, saturating
// at MaxOffset.
func (q StudentQuery) Offset() int {
	if q.Page < 1 || q.PerPage < 1 {
		return 0
	}
	if q.Page-1 > MaxOffset/q.PerPage {
		return MaxOffset
	}
	return (q.Page - 1) * q.PerPage
}

// StudentPage is one page of students plus listing metadata.
type StudentPage struct {
	Students      []Student `json:"students"`
	TotalPages    int       `json:"total_pages"`
	CurrentPage   int       `json:"current_page"`
	PerPage       int       `json:"-"`
	TotalStudents int       `json:"total_students"`
	Search        string    `json:"-"`
	SortBy        string    `json:"-"`
}

// HasPrev reports whether a previous page exists.
func (p StudentPage) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p StudentPage) HasNext() bool { return p.CurrentPage < p.TotalPages }

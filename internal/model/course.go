package model

import "time"

// Course is a taught course. Its ID is chosen by the user (e.g. "CS101").
type Course struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ProfessorName string    `json:"professor_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CoursePatch carries a partial course update. Nil fields are left untouched.
type CoursePatch struct {
	Name          *string `json:"name"`
	ProfessorName *string `json:"professor_name"`
}

// Package seed loads demo records into an empty store.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/apperror"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/service"
)

// Courses and Students are the records loaded on first start.
var (
	Courses = []model.AddCourse{
		{ID: "CS101", Name: "Introduction to Computer Science", ProfessorName: "Dr. Smith"},
		{ID: "MATH201", Name: "Advanced Mathematics", ProfessorName: "Dr. Johnson"},
	}
	Students = []model.AddStudent{
		{Name: "John Doe", Email: "john@example.com"},
		{Name: "Jane Smith", Email: "jane@example.com"},
	}
)

// SeedIfEmpty loads Courses and Students when neither table has rows.
// It reports whether anything was written.
func SeedIfEmpty(ctx context.Context, courses *service.CourseService, students *service.StudentService, log zerolog.Logger) (bool, error) {
	existingCourses, err := courses.List(ctx)
	if err != nil {
		return false, err
	}
	existingStudents, err := students.ListAll(ctx)
	if err != nil {
		return false, err
	}
	if len(existingCourses) > 0 || len(existingStudents) > 0 {
		log.Debug().Msg("Store not empty, skipping seed")
		return false, nil
	}

	for _, c := range Courses {
		if _, err := courses.Create(ctx, c); err != nil {
			return false, fmt.Errorf("seed course %s: %w", c.ID, err)
		}
	}
	for _, s := range Students {
		if _, err := students.Create(ctx, s); err != nil {
			return false, fmt.Errorf("seed student %s: %w", s.Email, err)
		}
	}

	log.Info().
		Int("courses", len(Courses)).
		Int("students", len(Students)).
		Msg("Seeded demo records")
	return true, nil
}

// GenerateStudents adds n generated students named "<prefix> N" with unique emails,
// spreading them over the given course ids round-robin. Students whose email is
// already taken are skipped. It returns the number created.
func GenerateStudents(ctx context.Context, students *service.StudentService, prefix string, n int, courseIDs []string) (int, error) {
	created := 0
	for i := 1; i <= n; i++ {
		cmd := model.AddStudent{
			Name:  fmt.Sprintf("%s %d", prefix, i),
			Email: fmt.Sprintf("student%03d@example.com", i),
		}
		if len(courseIDs) > 0 {
			cmd.CourseID = courseIDs[(i-1)%len(courseIDs)]
		}
		if _, err := students.Create(ctx, cmd); err != nil {
			if apperror.IsConflict(err) {
				continue
			}
			return created, fmt.Errorf("generate student %d: %w", i, err)
		}
		created++
	}
	return created, nil
}

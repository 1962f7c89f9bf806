package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
)

// countingCache is an in-memory CourseCache that records invalidations.
type countingCache struct {
	courses       []model.Course
	ok            bool
	invalidations int
}

func (c *countingCache) Get(context.Context) ([]model.Course, bool) { return c.courses, c.ok }
func (c *countingCache) Generation(context.Context) int64           { return int64(c.invalidations) }
func (c *countingCache) Set(_ context.Context, gen int64, courses []model.Course) {
	if gen == int64(c.invalidations) {
		c.courses, c.ok = courses, true
	}
}
func (c *countingCache) Invalidate(context.Context) {
	c.courses, c.ok = nil, false
	c.invalidations++
}

type fixture struct {
	store    *repository.MemoryStore
	cache    *countingCache
	courses  *CourseService
	students *StudentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	cache := &countingCache{}
	return &fixture{
		store:    store,
		cache:    cache,
		courses:  NewCourseService(store.Courses(), cache, zerolog.Nop()),
		students: NewStudentService(store.Students(), store.Courses(), Paging{DefaultPerPage: 10, MaxPerPage: 100}, zerolog.Nop()),
	}
}

func (f *fixture) addCourse(t *testing.T, id string) *model.Course {
	t.Helper()
	c, err := f.courses.Create(context.Background(), model.AddCourse{ID: id, Name: "Course " + id, ProfessorName: "Dr. " + id})
	if err != nil {
		t.Fatalf("add course %s: %v", id, err)
	}
	return c
}

func (f *fixture) addStudent(t *testing.T, name, email string) *model.Student {
	t.Helper()
	s, err := f.students.Create(context.Background(), model.AddStudent{Name: name, Email: email})
	if err != nil {
		t.Fatalf("add student %s: %v", email, err)
	}
	return s
}

func strPtr(s string) *string { return &s }

package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stemsi/student-records/internal/model"
)

func strPtr(s string) *string { return &s }

func TestMemoryCourseLifecycle(t *testing.T) {
	ctx := context.Background()
	courses := NewMemoryStore().Courses()

	c := &model.Course{ID: "CS101", Name: "Intro", ProfessorName: "Dr. Smith"}
	if err := courses.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
	if err := courses.Create(ctx, &model.Course{ID: "CS101", Name: "x", ProfessorName: "y"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	c.Name = "Intro to CS"
	if err := courses.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := courses.GetByID(ctx, "CS101")
	if err != nil || got.Name != "Intro to CS" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	if _, err := courses.Delete(ctx, "CS101"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := courses.Delete(ctx, "CS101"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryCourseDeleteOrphansStudents(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Courses().Create(ctx, &model.Course{ID: "CS101", Name: "Intro", ProfessorName: "Dr. Smith"}); err != nil {
		t.Fatal(err)
	}
	enrolled := &model.Student{Name: "Jane", Email: "jane@example.com", CourseID: strPtr("CS101")}
	loose := &model.Student{Name: "John", Email: "john@example.com"}
	for _, s := range []*model.Student{enrolled, loose} {
		if err := store.Students().Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	orphaned, err := store.Courses().Delete(ctx, "CS101")
	if err != nil {
		t.Fatal(err)
	}
	if orphaned != 1 {
		t.Fatalf("orphaned = %d, want 1", orphaned)
	}
	got, _ := store.Students().GetByID(ctx, enrolled.ID)
	if got.CourseID != nil {
		t.Fatalf("expected course reference cleared, got %q", *got.CourseID)
	}
}

func TestMemoryStudentRejectsUnknownCourse(t *testing.T) {
	ctx := context.Background()
	students := NewMemoryStore().Students()

	err := students.Create(ctx, &model.Student{Name: "Jane", Email: "jane@example.com", CourseID: strPtr("NOPE")})
	if !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
}

func TestMemoryListPaginated(t *testing.T) {
	ctx := context.Background()
	students := NewMemoryStore().Students()

	for i := 25; i >= 1; i-- {
		s := &model.Student{Name: fmt.Sprintf("Student %02d", i), Email: fmt.Sprintf("s%02d@example.com", i)}
		if err := students.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	page, total, err := students.ListPaginated(ctx, model.StudentQuery{SortBy: model.SortByName, Page: 3, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 25 || len(page) != 5 {
		t.Fatalf("total=%d len=%d, want 25 and 5", total, len(page))
	}
	if page[0].Name != "Student 21" {
		t.Fatalf("first row on page 3 = %q, want Student 21", page[0].Name)
	}

	page, total, err = students.ListPaginated(ctx, model.StudentQuery{Search: "S07@EXAMPLE", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || page[0].Email != "s07@example.com" {
		t.Fatalf("search returned %d rows: %+v", total, page)
	}

	page, _, _ = students.ListPaginated(ctx, model.StudentQuery{Page: 9, PerPage: 10})
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %d rows", len(page))
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Courses().Create(ctx, &model.Course{ID: "CS101", Name: "Intro", ProfessorName: "Dr. Smith"})

	s := &model.Student{Name: "Jane", Email: "jane@example.com", CourseID: strPtr("CS101")}
	if err := store.Students().Create(ctx, s); err != nil {
		t.Fatal(err)
	}

	got, _ := store.Students().GetByID(ctx, s.ID)
	*got.CourseID = "MUTATED"

	again, _ := store.Students().GetByID(ctx, s.ID)
	if *again.CourseID != "CS101" {
		t.Fatalf("stored record was mutated through a returned pointer: %q", *again.CourseID)
	}
}

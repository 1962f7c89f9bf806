package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/apperror"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
)

func TestCreateCourseRejectsBlankFields(t *testing.T) {
	blanks := []model.AddCourse{
		{ID: "", Name: "Intro", ProfessorName: "Dr. Smith"},
		{ID: "CS101", Name: "   ", ProfessorName: "Dr. Smith"},
		{ID: "CS101", Name: "Intro", ProfessorName: ""},
	}

	for _, cmd := range blanks {
		f := newFixture(t)
		_, err := f.courses.Create(context.Background(), cmd)
		if !apperror.IsValidation(err) {
			t.Fatalf("%+v: expected validation error, got %v", cmd, err)
		}
		courses, _ := f.courses.List(context.Background())
		if len(courses) != 0 {
			t.Fatalf("%+v: table changed: %+v", cmd, courses)
		}
	}
}

func TestCreateCourseRejectsOverlongID(t *testing.T) {
	f := newFixture(t)
	_, err := f.courses.Create(context.Background(), model.AddCourse{ID: "CS101-EXTENDED", Name: "Intro", ProfessorName: "Dr. Smith"})
	if !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCourseRejectsDuplicateID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := f.addCourse(t, "CS101")

	_, err := f.courses.Create(ctx, model.AddCourse{ID: "CS101", Name: "Other", ProfessorName: "Dr. Who"})
	if !apperror.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := f.courses.Get(ctx, "CS101")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != original.Name || got.ProfessorName != original.ProfessorName {
		t.Fatalf("existing course changed: %+v", got)
	}
}

func TestCourseAddDeleteRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCourse(t, "MATH201")

	before, _ := f.courses.List(ctx)

	if _, err := f.courses.Create(ctx, model.AddCourse{ID: "CS101", Name: "Intro", ProfessorName: "Dr. Smith"}); err != nil {
		t.Fatal(err)
	}
	if err := f.courses.Delete(ctx, "CS101"); err != nil {
		t.Fatal(err)
	}

	after, _ := f.courses.List(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip changed table:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestUpdateCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCourse(t, "CS101")

	updated, err := f.courses.Update(ctx, "CS101", model.CoursePatch{ProfessorName: strPtr(" Dr. Knuth ")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ProfessorName != "Dr. Knuth" || updated.Name != "Course CS101" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := f.courses.Update(ctx, "CS101", model.CoursePatch{Name: strPtr("")}); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	if _, err := f.courses.Update(ctx, "NOPE", model.CoursePatch{Name: strPtr("x")}); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMissingCourse(t *testing.T) {
	f := newFixture(t)
	f.addCourse(t, "CS101")

	if err := f.courses.Delete(context.Background(), "NOPE"); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	courses, _ := f.courses.List(context.Background())
	if len(courses) != 1 {
		t.Fatalf("table changed: %+v", courses)
	}
}

func TestDeleteCourseOrphansStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCourse(t, "CS101")
	s := f.addStudent(t, "Jane Smith", "jane@example.com")
	if _, err := f.students.AssignCourse(ctx, s.ID, "CS101"); err != nil {
		t.Fatal(err)
	}

	if err := f.courses.Delete(ctx, "CS101"); err != nil {
		t.Fatal(err)
	}
	got, _ := f.students.Get(ctx, s.ID)
	if got.CourseID != nil {
		t.Fatalf("expected orphaned student, course_id = %q", *got.CourseID)
	}
}

func TestCourseListIsCachedAndInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCourse(t, "CS101")

	if _, err := f.courses.List(ctx); err != nil {
		t.Fatal(err)
	}
	if !f.cache.ok {
		t.Fatal("expected list to populate the cache")
	}

	invalidations := f.cache.invalidations
	f.addCourse(t, "MATH201")
	if f.cache.invalidations != invalidations+1 || f.cache.ok {
		t.Fatal("expected create to invalidate the cache")
	}

	courses, _ := f.courses.List(ctx)
	if len(courses) != 2 {
		t.Fatalf("expected fresh list after invalidation, got %+v", courses)
	}
}

// invalidatingRepo runs hook while the course list is being read.
type invalidatingRepo struct {
	repository.CourseRepository
	hook func()
}

func (r invalidatingRepo) List(ctx context.Context) ([]model.Course, error) {
	courses, err := r.CourseRepository.List(ctx)
	if r.hook != nil {
		r.hook()
	}
	return courses, err
}

func TestCourseListNotCachedAcrossConcurrentMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCourse(t, "CS101")

	repo := invalidatingRepo{
		CourseRepository: f.store.Courses(),
		hook: func() {
			if err := f.courses.Delete(ctx, "CS101"); err != nil {
				t.Fatal(err)
			}
		},
	}
	svc := NewCourseService(repo, f.cache, zerolog.Nop())

	if _, err := svc.List(ctx); err != nil {
		t.Fatal(err)
	}
	if f.cache.ok {
		t.Fatalf("stale list cached after delete: %+v", f.cache.courses)
	}
}

package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestMatchersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update student: %w", NewNotFoundError("course", "CS999"))

	if !IsNotFound(wrapped) {
		t.Fatal("expected wrapped NotFoundError to match")
	}
	if IsConflict(wrapped) || IsValidation(wrapped) {
		t.Fatal("NotFoundError must not match other kinds")
	}

	var nf *NotFoundError
	if !errors.As(wrapped, &nf) || nf.Resource != "course" || nf.ID != "CS999" {
		t.Fatalf("unexpected NotFoundError: %+v", nf)
	}
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := Required("professor_name", "course_id", "course_name")
	want := "validation failed: course_id, course_name, professor_name"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestConflictErrorMessage(t *testing.T) {
	err := NewConflictError("student", "email", "jane@example.com")
	if got := err.Error(); got != `student with email "jane@example.com" already exists` {
		t.Fatalf("unexpected message %q", got)
	}
}

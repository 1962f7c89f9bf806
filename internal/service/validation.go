package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/student-records/internal/apperror"
	"github.com/stemsi/student-records/internal/repository"
)

// Column widths from migrations/000001_init.up.sql.
const (
	maxCourseIDLen = 10
	maxTextLen     = 100
)

// field is a named input value checked by requireFields.
type field struct {
	name  string
	value string
	max   int
}

// requireFields reports every blank or over-long field in one ValidationError.
// Values are expected to be trimmed already.
func requireFields(fields ...field) error {
	problems := map[string]string{}
	for _, f := range fields {
		switch {
		case f.value == "":
			problems[f.name] = f.name + " is a required field"
		case f.max > 0 && len([]rune(f.value)) > f.max:
			problems[f.name] = fmt.Sprintf("%s must be at most %d characters", f.name, f.max)
		}
	}
	if len(problems) > 0 {
		return apperror.NewValidationError(problems)
	}
	return nil
}

// trimmedPatch trims a patch value and rejects blanks. A nil value means "unchanged".
func trimmedPatch(name string, value *string, max int) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if err := requireFields(field{name: name, value: v, max: max}); err != nil {
		return nil, err
	}
	return &v, nil
}

// notFoundOr converts repository.ErrNotFound into a NotFoundError for resource/id.
func notFoundOr(err error, resource string, id any, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NewNotFoundError(resource, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}

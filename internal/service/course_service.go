package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/apperror"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
)

// CourseCache caches the full course list between mutations.
// Set must drop the list when Invalidate ran after gen was read.
type CourseCache interface {
	Get(ctx context.Context) ([]model.Course, bool)
	Generation(ctx context.Context) int64
	Set(ctx context.Context, gen int64, courses []model.Course)
	Invalidate(ctx context.Context)
}

// CourseService handles course business logic.
type CourseService struct {
	courseRepo repository.CourseRepository
	cache      CourseCache
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo repository.CourseRepository, cache CourseCache, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		cache:      cache,
		log:        logger.Component(log, "course_service"),
	}
}

// List returns every course ordered by id.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	if courses, ok := s.cache.Get(ctx); ok {
		return courses, nil
	}

	gen := s.cache.Generation(ctx)
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	s.cache.Set(ctx, gen, courses)
	return courses, nil
}

// Get retrieves a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course", id, "get course")
	}
	return course, nil
}

// Create adds a course. All fields are required and the id must be unused.
func (s *CourseService) Create(ctx context.Context, cmd model.AddCourse) (*model.Course, error) {
	course := &model.Course{
		ID:            strings.TrimSpace(cmd.ID),
		Name:          strings.TrimSpace(cmd.Name),
		ProfessorName: strings.TrimSpace(cmd.ProfessorName),
	}
	if err := requireFields(
		field{name: "course_id", value: course.ID, max: maxCourseIDLen},
		field{name: "course_name", value: course.Name, max: maxTextLen},
		field{name: "professor_name", value: course.ProfessorName, max: maxTextLen},
	); err != nil {
		return nil, err
	}

	_, err := s.courseRepo.GetByID(ctx, course.ID)
	switch {
	case err == nil:
		return nil, apperror.NewConflictError("course", "id", course.ID)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check course id: %w", err)
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("course", "id", course.ID)
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.cache.Invalidate(ctx)

	s.log.Info().Str("course_id", course.ID).Msg("Course created")
	return course, nil
}

// Update applies a partial update to an existing course.
func (s *CourseService) Update(ctx context.Context, id string, patch model.CoursePatch) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := trimmedPatch("course_name", patch.Name, maxTextLen)
	if err != nil {
		return nil, err
	}
	professor, err := trimmedPatch("professor_name", patch.ProfessorName, maxTextLen)
	if err != nil {
		return nil, err
	}
	if name != nil {
		course.Name = *name
	}
	if professor != nil {
		course.ProfessorName = *professor
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, notFoundOr(err, "course", id, "update course")
	}
	s.cache.Invalidate(ctx)

	s.log.Info().Str("course_id", id).Msg("Course updated")
	return course, nil
}

// Delete removes a course. Students enrolled in it keep existing without a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	orphaned, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		return notFoundOr(err, "course", id, "delete course")
	}
	s.cache.Invalidate(ctx)

	s.log.Info().Str("course_id", id).Int("orphaned_students", orphaned).Msg("Course deleted")
	return nil
}

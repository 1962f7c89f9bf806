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

// Paging bounds the student listing page size.
type Paging struct {
	DefaultPerPage int
	MaxPerPage     int
}

// StudentService handles student business logic.
type StudentService struct {
	studentRepo repository.StudentRepository
	courseRepo  repository.CourseRepository
	paging      Paging
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(
	studentRepo repository.StudentRepository,
	courseRepo repository.CourseRepository,
	paging Paging,
	log zerolog.Logger,
) *StudentService {
	if paging.DefaultPerPage < 1 {
		paging.DefaultPerPage = 10
	}
	if paging.MaxPerPage < paging.DefaultPerPage {
		paging.MaxPerPage = paging.DefaultPerPage
	}
	return &StudentService{
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
		paging:      paging,
		log:         logger.Component(log, "student_service"),
	}
}

// List returns one page of students filtered by a name/email substring and sorted by id or name.
func (s *StudentService) List(ctx context.Context, q model.StudentQuery) (*model.StudentPage, error) {
	q = s.normalize(q)

	students, total, err := s.studentRepo.ListPaginated(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if students == nil {
		students = []model.Student{}
	}

	return &model.StudentPage{
		Students:      students,
		TotalPages:    (total + q.PerPage - 1) / q.PerPage,
		CurrentPage:   q.Page,
		PerPage:       q.PerPage,
		TotalStudents: total,
		Search:        q.Search,
		SortBy:        q.SortBy,
	}, nil
}

func (s *StudentService) normalize(q model.StudentQuery) model.StudentQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.SortBy != model.SortByName {
		q.SortBy = model.SortByID
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = s.paging.DefaultPerPage
	}
	if q.PerPage > s.paging.MaxPerPage {
		q.PerPage = s.paging.MaxPerPage
	}
	// Pages past MaxOffset are all empty; clamping keeps Offset exact.
	if maxPage := model.MaxOffset/q.PerPage + 1; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

// ListMatching returns every student matching search, ordered by sortBy, by walking
// the paginated listing at the maximum page size.
func (s *StudentService) ListMatching(ctx context.Context, search, sortBy string) ([]model.Student, error) {
	q := s.normalize(model.StudentQuery{Search: search, SortBy: sortBy, PerPage: s.paging.MaxPerPage})

	students := []model.Student{}
	for {
		batch, total, err := s.studentRepo.ListPaginated(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("list students page %d: %w", q.Page, err)
		}
		students = append(students, batch...)
		if len(batch) == 0 || len(students) >= total {
			return students, nil
		}
		q.Page++
	}
}

// ListAll returns every student ordered by id.
func (s *StudentService) ListAll(ctx context.Context) ([]model.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Get retrieves a student by id.
func (s *StudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student", id, "get student")
	}
	return student, nil
}

// Create adds a student. Name and email are required and the email must be unused.
func (s *StudentService) Create(ctx context.Context, cmd model.AddStudent) (*model.Student, error) {
	student := &model.Student{
		Name:  strings.TrimSpace(cmd.Name),
		Email: strings.TrimSpace(cmd.Email),
	}
	if err := requireFields(
		field{name: "name", value: student.Name, max: maxTextLen},
		field{name: "email", value: student.Email, max: maxTextLen},
	); err != nil {
		return nil, err
	}

	if courseID := strings.TrimSpace(cmd.CourseID); courseID != "" {
		if err := s.ensureCourse(ctx, courseID); err != nil {
			return nil, err
		}
		student.CourseID = &courseID
	}

	_, err := s.studentRepo.GetByEmail(ctx, student.Email)
	switch {
	case err == nil:
		return nil, apperror.NewConflictError("student", "email", student.Email)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check student email: %w", err)
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, apperror.NewNotFoundError("course", student.CourseRef())
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.log.Info().Int("student_id", student.ID).Msg("Student created")
	return student, nil
}

// Update applies a partial update. A CourseID patch of "" clears the course reference;
// any other value must name an existing course.
func (s *StudentService) Update(ctx context.Context, id int, patch model.StudentPatch) (*model.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := trimmedPatch("name", patch.Name, maxTextLen)
	if err != nil {
		return nil, err
	}
	email, err := trimmedPatch("email", patch.Email, maxTextLen)
	if err != nil {
		return nil, err
	}
	if name != nil {
		student.Name = *name
	}
	if email != nil {
		student.Email = *email
	}

	if patch.CourseID != nil {
		courseID := strings.TrimSpace(*patch.CourseID)
		if courseID == "" {
			student.CourseID = nil
		} else {
			if err := s.ensureCourse(ctx, courseID); err != nil {
				return nil, err
			}
			student.CourseID = &courseID
		}
	}

	if err := s.save(ctx, student); err != nil {
		return nil, err
	}

	s.log.Info().Int("student_id", id).Msg("Student updated")
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "student", id, "delete student")
	}
	s.log.Info().Int("student_id", id).Msg("Student deleted")
	return nil
}

// AssignCourse points a student at a course after checking that both exist.
// Nothing is written when either is missing.
func (s *StudentService) AssignCourse(ctx context.Context, studentID int, courseID string) (*model.Student, error) {
	courseID = strings.TrimSpace(courseID)
	if err := requireFields(field{name: "course_id", value: courseID}); err != nil {
		return nil, err
	}

	student, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	student.CourseID = &courseID
	if err := s.save(ctx, student); err != nil {
		return nil, err
	}

	s.log.Info().Int("student_id", studentID).Str("course_id", courseID).Msg("Course assigned")
	return student, nil
}

func (s *StudentService) save(ctx context.Context, student *model.Student) error {
	err := s.studentRepo.Update(ctx, student)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NewNotFoundError("student", student.ID)
	case errors.Is(err, repository.ErrMissingReference):
		return apperror.NewNotFoundError("course", student.CourseRef())
	}
	return fmt.Errorf("update student: %w", err)
}

func (s *StudentService) ensureCourse(ctx context.Context, courseID string) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return notFoundOr(err, "course", courseID, "check course")
	}
	return nil
}

package model

import (
	"strconv"
	"strings"

	"github.com/stemsi/student-records/internal/apperror"
)

// Form actions accepted by the page-based editors.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// CourseCommand is one of AddCourse, UpdateCourse or DeleteCourse.
type CourseCommand interface {
	courseCommand()
}

type AddCourse struct {
	ID            string
	Name          string
	ProfessorName string
}

type UpdateCourse struct {
	ID            string
	Name          string
	ProfessorName string
}

type DeleteCourse struct {
	ID string
}

func (AddCourse) courseCommand()    {}
func (UpdateCourse) courseCommand() {}
func (DeleteCourse) courseCommand() {}

// CourseForm is the payload posted to /edit_course, either form-encoded or JSON.
type CourseForm struct {
	Action        string `form:"action" json:"action" binding:"required"`
	CourseID      string `form:"course_id" json:"course_id"`
	CourseName    string `form:"course_name" json:"course_name"`
	ProfessorName string `form:"professor_name" json:"professor_name"`
}

// Command converts the form into its command variant.
func (f CourseForm) Command() (CourseCommand, error) {
	id := strings.TrimSpace(f.CourseID)
	switch normalizeAction(f.Action) {
	case ActionAdd:
		return AddCourse{ID: id, Name: f.CourseName, ProfessorName: f.ProfessorName}, nil
	case ActionUpdate:
		return UpdateCourse{ID: id, Name: f.CourseName, ProfessorName: f.ProfessorName}, nil
	case ActionDelete:
		return DeleteCourse{ID: id}, nil
	}
	return nil, unknownAction()
}

// StudentCommand is one of AddStudent, UpdateStudent or DeleteStudent.
type StudentCommand interface {
	studentCommand()
}

// AddStudent creates a student. An empty CourseID leaves the student unassigned.
type AddStudent struct {
	Name     string
	Email    string
	CourseID string
}

// UpdateStudent replaces a student's fields. An empty CourseID clears the course.
type UpdateStudent struct {
	ID       int
	Name     string
	Email    string
	CourseID string
}

type DeleteStudent struct {
	ID int
}

func (AddStudent) studentCommand()    {}
func (UpdateStudent) studentCommand() {}
func (DeleteStudent) studentCommand() {}

// StudentForm is the payload posted to /add_delete_student.
type StudentForm struct {
	Action    string `form:"action" json:"action" binding:"required"`
	StudentID string `form:"student_id" json:"student_id"`
	Name      string `form:"name" json:"name"`
	Email     string `form:"email" json:"email"`
	CourseID  string `form:"course_id" json:"course_id"`
}

// Command converts the form into its command variant.
func (f StudentForm) Command() (StudentCommand, error) {
	action := normalizeAction(f.Action)
	switch action {
	case ActionAdd:
		return AddStudent{Name: f.Name, Email: f.Email, CourseID: strings.TrimSpace(f.CourseID)}, nil
	case ActionUpdate, ActionDelete:
		id, err := parseStudentID(f.StudentID)
		if err != nil {
			return nil, err
		}
		if action == ActionDelete {
			return DeleteStudent{ID: id}, nil
		}
		return UpdateStudent{ID: id, Name: f.Name, Email: f.Email, CourseID: strings.TrimSpace(f.CourseID)}, nil
	}
	return nil, unknownAction()
}

// AssignCourseForm is the payload posted to /assign_course.
type AssignCourseForm struct {
	StudentID string `form:"student_id" json:"student_id" binding:"required"`
	CourseID  string `form:"course_id" json:"course_id" binding:"required"`
}

// ParsedStudentID returns the student id as an integer.
func (f AssignCourseForm) ParsedStudentID() (int, error) {
	return parseStudentID(f.StudentID)
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

func parseStudentID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.Required("student_id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, apperror.NewValidationError(map[string]string{"student_id": "student_id must be a positive integer"})
	}
	return id, nil
}

func unknownAction() error {
	return apperror.NewValidationError(map[string]string{"action": "action must be one of add, update, delete"})
}

// Patch returns the update as a full-field patch.
func (u UpdateCourse) Patch() CoursePatch {
	return CoursePatch{Name: &u.Name, ProfessorName: &u.ProfessorName}
}

// Patch returns the update as a full-field patch; an empty CourseID clears the course.
func (u UpdateStudent) Patch() StudentPatch {
	return StudentPatch{Name: &u.Name, Email: &u.Email, CourseID: &u.CourseID}
}

package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-records/internal/flash"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/report"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

// StudentPageHandler serves the student listing, the student editor and course assignment.
type StudentPageHandler struct {
	studentService *service.StudentService
	courseService  *service.CourseService
	pages          *Pages
}

// NewStudentPageHandler creates a new StudentPageHandler.
func NewStudentPageHandler(
	studentService *service.StudentService,
	courseService *service.CourseService,
	pages *Pages,
) *StudentPageHandler {
	return &StudentPageHandler{
		studentService: studentService,
		courseService:  courseService,
		pages:          pages,
	}
}

// studentQuery reads the listing parameters. Malformed numbers fall back to defaults.
func studentQuery(c *gin.Context) model.StudentQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	return model.StudentQuery{
		Search:  c.Query("search"),
		SortBy:  c.DefaultQuery("sort_by", model.SortByID),
		Page:    page,
		PerPage: perPage,
	}
}

// StudentsPage godoc
// GET /students?search=&sort_by=id|name&page=1&per_page=10
func (h *StudentPageHandler) StudentsPage(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := h.studentService.List(ctx, studentQuery(c))
	if err != nil {
		h.pages.fail(c, err)
		return
	}
	courses, err := h.courseService.List(ctx)
	if err != nil {
		h.pages.fail(c, err)
		return
	}

	h.pages.render(c, "students.html", gin.H{
		"Title":   "Students",
		"Page":    page,
		"Courses": courses,
	})
}

// AssignCourse godoc
// POST /assign_course
// Points a student at a course and redirects back to the listing with a notice.
func (h *StudentPageHandler) AssignCourse(c *gin.Context) {
	if err := h.assign(c); err != nil {
		if statusFor(err) >= 500 {
			h.pages.log.Error().Err(err).Msg("Course assignment failed")
		}
		h.pages.notify(c, flash.Danger(dangerMessage(err)))
	} else {
		h.pages.notify(c, flash.Success("Course assigned successfully!"))
	}
	c.Redirect(http.StatusSeeOther, "/students")
}

func (h *StudentPageHandler) assign(c *gin.Context) error {
	var form model.AssignCourseForm
	if err := validator.BindForm(c, &form); err != nil {
		return err
	}
	studentID, err := form.ParsedStudentID()
	if err != nil {
		return err
	}
	_, err = h.studentService.AssignCourse(c.Request.Context(), studentID, form.CourseID)
	return err
}

// AddDeleteStudentPage godoc
// GET /add_delete_student
func (h *StudentPageHandler) AddDeleteStudentPage(c *gin.Context) {
	h.renderEditor(c)
}

// AddDeleteStudent godoc
// POST /add_delete_student
// Adds, updates or deletes a student depending on the posted action.
func (h *StudentPageHandler) AddDeleteStudent(c *gin.Context) {
	message, err := h.submit(c)
	if err != nil {
		if statusFor(err) >= 500 {
			h.pages.log.Error().Err(err).Msg("Student action failed")
		}
		h.renderEditor(c, flash.Danger(dangerMessage(err)))
		return
	}
	h.renderEditor(c, flash.Success(message))
}

func (h *StudentPageHandler) submit(c *gin.Context) (string, error) {
	var form model.StudentForm
	if err := validator.BindForm(c, &form); err != nil {
		return "", err
	}
	cmd, err := form.Command()
	if err != nil {
		return "", err
	}
	return h.apply(c.Request.Context(), cmd)
}

// apply runs one student command and returns its success notice.
func (h *StudentPageHandler) apply(ctx context.Context, cmd model.StudentCommand) (string, error) {
	switch cmd := cmd.(type) {
	case model.AddStudent:
		_, err := h.studentService.Create(ctx, cmd)
		return "Student added successfully!", err
	case model.UpdateStudent:
		_, err := h.studentService.Update(ctx, cmd.ID, cmd.Patch())
		return "Student updated successfully!", err
	case model.DeleteStudent:
		return "Student deleted successfully!", h.studentService.Delete(ctx, cmd.ID)
	}
	return "", fmt.Errorf("unhandled student command %T", cmd)
}

func (h *StudentPageHandler) renderEditor(c *gin.Context, notices ...flash.Notice) {
	ctx := c.Request.Context()

	students, err := h.studentService.ListAll(ctx)
	if err != nil {
		h.pages.fail(c, err)
		return
	}
	courses, err := h.courseService.List(ctx)
	if err != nil {
		h.pages.fail(c, err)
		return
	}

	h.pages.render(c, "add_delete_student.html", gin.H{
		"Title":    "Manage Students",
		"Students": students,
		"Courses":  courses,
	}, notices...)
}

// Export godoc
// GET /students/export?search=&sort_by=id|name
// Downloads every matching student as an xlsx workbook.
func (h *StudentPageHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	q := studentQuery(c)

	students, err := h.studentService.ListMatching(ctx, q.Search, q.SortBy)
	if err != nil {
		h.pages.fail(c, err)
		return
	}
	courses, err := h.courseService.List(ctx)
	if err != nil {
		h.pages.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteStudents(&buf, students, courses); err != nil {
		h.pages.fail(c, err)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, report.ContentTypeXLSX, buf.Bytes())
}

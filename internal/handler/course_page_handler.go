package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-records/internal/flash"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

// CoursePageHandler serves the home page and the course editor.
type CoursePageHandler struct {
	courseService  *service.CourseService
	studentService *service.StudentService
	pages          *Pages
}

// NewCoursePageHandler creates a new CoursePageHandler.
func NewCoursePageHandler(
	courseService *service.CourseService,
	studentService *service.StudentService,
	pages *Pages,
) *CoursePageHandler {
	return &CoursePageHandler{
		courseService:  courseService,
		studentService: studentService,
		pages:          pages,
	}
}

// Home godoc
// GET /
// Shows every course and every student.
func (h *CoursePageHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	courses, err := h.courseService.List(ctx)
	if err != nil {
		h.pages.fail(c, err)
		return
	}
	students, err := h.studentService.ListAll(ctx)
	if err != nil {
		h.pages.fail(c, err)
		return
	}

	h.pages.render(c, "index.html", gin.H{
		"Title":    "Home",
		"Courses":  courses,
		"Students": students,
	})
}

// EditCoursePage godoc
// GET /edit_course
func (h *CoursePageHandler) EditCoursePage(c *gin.Context) {
	h.renderEditor(c)
}

// EditCourse godoc
// POST /edit_course
// Adds, updates or deletes a course depending on the posted action. Form posts get
// the re-rendered editor with a notice; JSON posts get {"success", "error"}.
func (h *CoursePageHandler) EditCourse(c *gin.Context) {
	message, err := h.submit(c)

	if validator.IsJSON(c) {
		if err != nil {
			if statusFor(err) >= 500 {
				h.pages.log.Error().Err(err).Msg("Course action failed")
			}
			c.JSON(statusFor(err), gin.H{"success": false, "error": dangerMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
		return
	}

	if err != nil {
		if statusFor(err) >= 500 {
			h.pages.log.Error().Err(err).Msg("Course action failed")
		}
		h.renderEditor(c, flash.Danger(dangerMessage(err)))
		return
	}
	h.renderEditor(c, flash.Success(message))
}

func (h *CoursePageHandler) submit(c *gin.Context) (string, error) {
	var form model.CourseForm
	if err := validator.BindForm(c, &form); err != nil {
		return "", err
	}
	cmd, err := form.Command()
	if err != nil {
		return "", err
	}
	return h.apply(c.Request.Context(), cmd)
}

// apply runs one course command and returns its success notice.
func (h *CoursePageHandler) apply(ctx context.Context, cmd model.CourseCommand) (string, error) {
	switch cmd := cmd.(type) {
	case model.AddCourse:
		_, err := h.courseService.Create(ctx, cmd)
		return "Course added successfully!", err
	case model.UpdateCourse:
		_, err := h.courseService.Update(ctx, cmd.ID, cmd.Patch())
		return "Course updated successfully!", err
	case model.DeleteCourse:
		return "Course deleted successfully!", h.courseService.Delete(ctx, cmd.ID)
	}
	return "", fmt.Errorf("unhandled course command %T", cmd)
}

func (h *CoursePageHandler) renderEditor(c *gin.Context, notices ...flash.Notice) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		h.pages.fail(c, err)
		return
	}
	h.pages.render(c, "edit_course.html", gin.H{
		"Title":   "Edit Courses",
		"Courses": courses,
	}, notices...)
}

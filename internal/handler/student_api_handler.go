package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

// StudentAPIHandler exposes students over the JSON API.
type StudentAPIHandler struct {
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewStudentAPIHandler creates a new StudentAPIHandler.
func NewStudentAPIHandler(studentService *service.StudentService, log zerolog.Logger) *StudentAPIHandler {
	return &StudentAPIHandler{
		studentService: studentService,
		log:            logger.Component(log, "student_api"),
	}
}

// ListStudents godoc
// GET /api/students?search=&sort_by=id|name&page=1&per_page=10
func (h *StudentAPIHandler) ListStudents(c *gin.Context) {
	page, err := h.studentService.List(c.Request.Context(), studentQuery(c))
	if err != nil {
		failAPI(c, h.log, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// UpdateStudent godoc
// PUT|PATCH /api/students/:id
// Applies the provided fields. "course_id": "" removes the student from their course.
func (h *StudentAPIHandler) UpdateStudent(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	var patch model.StudentPatch
	if err := validator.Bind(c, &patch); err != nil {
		failAPI(c, h.log, err)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, patch)
	if err != nil {
		failAPI(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message": "Student updated successfully!",
		"student": student,
	})
}

// DeleteStudent godoc
// DELETE /api/students/:id
func (h *StudentAPIHandler) DeleteStudent(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failAPI(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message":    "Student deleted successfully!",
		"student_id": id,
	})
}

// studentID parses the :id path parameter, answering INVALID_ID when malformed.
func studentID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

// CourseAPIHandler exposes courses over the JSON API.
type CourseAPIHandler struct {
	courseService *service.CourseService
	log           zerolog.Logger
}

// NewCourseAPIHandler creates a new CourseAPIHandler.
func NewCourseAPIHandler(courseService *service.CourseService, log zerolog.Logger) *CourseAPIHandler {
	return &CourseAPIHandler{
		courseService: courseService,
		log:           logger.Component(log, "course_api"),
	}
}

// ListCourses godoc
// GET /api/courses
func (h *CourseAPIHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		failAPI(c, h.log, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"courses": courses})
}

// UpdateCourse godoc
// PUT|PATCH /api/courses/:id
// Applies the provided fields; omitted fields are left unchanged.
func (h *CourseAPIHandler) UpdateCourse(c *gin.Context) {
	var patch model.CoursePatch
	if err := validator.Bind(c, &patch); err != nil {
		failAPI(c, h.log, err)
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failAPI(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message": "Course updated successfully!",
		"course":  course,
	})
}

// DeleteCourse godoc
// DELETE /api/courses/:id
// Deletes a course; its students stay without a course.
func (h *CourseAPIHandler) DeleteCourse(c *gin.Context) {
	id := c.Param("id")
	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		failAPI(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"message":   "Course deleted successfully!",
		"course_id": id,
	})
}

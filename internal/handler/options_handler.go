package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Options godoc
// OPTIONS /api/students, /api/students/:id, /api/courses, /api/courses/:id
// Advertises the allowed methods in the Allow header. Plain discovery requests also
// get them as JSON; CORS preflights get an empty 204.
func Options(methods ...string) gin.HandlerFunc {
	allow := strings.Join(append(append([]string{}, methods...), http.MethodOptions), ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		if c.GetHeader("Access-Control-Request-Method") != "" {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, gin.H{"methods": strings.Split(allow, ", ")})
	}
}

package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/handler"
	"github.com/stemsi/student-records/internal/middleware"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/web"
)

// One year, for the embedded static assets.
const staticMaxAge = 31536000

// Handlers groups all handler instances for route setup.
type Handlers struct {
	CoursePage  *handler.CoursePageHandler
	StudentPage *handler.StudentPageHandler
	CourseAPI   *handler.CourseAPIHandler
	StudentAPI  *handler.StudentAPIHandler
	Health      *handler.HealthHandler
}

// SetupRouter configures the page routes, the JSON API and their middlewares.
// ctx bounds background work started by middlewares such as the rate limiter.
func SetupRouter(ctx context.Context, handlers *Handlers, cfg *config.Config) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	// Workbooks are already zip-compressed.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality: middleware.DefaultBrotliConfig.Quality,
		Skipper: middleware.SkipPaths("/students/export"),
	}))

	static := router.Group("/static")
	static.Use(middleware.CacheControl(staticMaxAge))
	{
		static.StaticFS("/", http.FS(web.Static()))
	}

	router.GET("/health", handlers.Health.Health)

	// ─── Pages (flash session) ─────────────────────────────────────────
	pages := router.Group("/")
	pages.Use(middleware.FlashSession(cfg.CookieSecure))
	{
		pages.GET("/", handlers.CoursePage.Home)
		pages.GET("/edit_course", handlers.CoursePage.EditCoursePage)
		pages.POST("/edit_course", handlers.CoursePage.EditCourse)

		pages.GET("/students", handlers.StudentPage.StudentsPage)
		pages.GET("/students/export", handlers.StudentPage.Export)
		pages.POST("/assign_course", handlers.StudentPage.AssignCourse)
		pages.GET("/add_delete_student", handlers.StudentPage.AddDeleteStudentPage)
		pages.POST("/add_delete_student", handlers.StudentPage.AddDeleteStudent)
	}

	// ─── JSON API ──────────────────────────────────────────────────────
	api := router.Group("/api")
	if cfg.APIRateLimit > 0 {
		api.Use(middleware.NewRateLimiter(ctx, cfg.APIRateLimit, time.Minute).Middleware())
	}
	{
		api.GET("/students", handlers.StudentAPI.ListStudents)
		api.OPTIONS("/students", handler.Options(http.MethodGet))
		api.PUT("/students/:id", handlers.StudentAPI.UpdateStudent)
		api.PATCH("/students/:id", handlers.StudentAPI.UpdateStudent)
		api.DELETE("/students/:id", handlers.StudentAPI.DeleteStudent)
		api.OPTIONS("/students/:id", handler.Options(http.MethodPut, http.MethodPatch, http.MethodDelete))

		api.GET("/courses", handlers.CourseAPI.ListCourses)
		api.OPTIONS("/courses", handler.Options(http.MethodGet))
		api.PUT("/courses/:id", handlers.CourseAPI.UpdateCourse)
		api.PATCH("/courses/:id", handlers.CourseAPI.UpdateCourse)
		api.DELETE("/courses/:id", handlers.CourseAPI.DeleteCourse)
		api.OPTIONS("/courses/:id", handler.Options(http.MethodPut, http.MethodPatch, http.MethodDelete))
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router, nil
}

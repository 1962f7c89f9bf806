package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/cache"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/database"
	"github.com/stemsi/student-records/internal/flash"
	"github.com/stemsi/student-records/internal/handler"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/router"
	"github.com/stemsi/student-records/internal/seed"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Student Records")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	checks := map[string]handler.HealthCheck{"storage": store.Ping}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	var (
		courseCache service.CourseCache = cache.NoopCourseCache{}
		flashStore  flash.Store         = flash.NewMemoryStore(cfg.FlashTTL)
	)
	if rdb != nil {
		defer rdb.Close()
		courseCache = cache.NewRedisCourseCache(rdb, cfg.CourseCacheTTL, log)
		flashStore = flash.NewRedisStore(rdb, cfg.FlashTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// ─── Initialize Services ──────────────────────────────────────────
	courseService := service.NewCourseService(store.Courses, courseCache, log)
	studentService := service.NewStudentService(store.Students, store.Courses, service.Paging{
		DefaultPerPage: cfg.DefaultPerPage,
		MaxPerPage:     cfg.MaxPerPage,
	}, log)

	if cfg.SeedOnStart {
		if _, err := seed.SeedIfEmpty(ctx, courseService, studentService, log); err != nil {
			log.Warn().Err(err).Msg("Seeding demo records failed")
		}
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	pages := handler.NewPages(flashStore, log)
	handlers := &router.Handlers{
		CoursePage:  handler.NewCoursePageHandler(courseService, studentService, pages),
		StudentPage: handler.NewStudentPageHandler(studentService, courseService, pages),
		CourseAPI:   handler.NewCourseAPIHandler(courseService, log),
		StudentAPI:  handler.NewStudentAPIHandler(studentService, log),
		Health:      handler.NewHealthHandler(checks, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(ctx, handlers, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

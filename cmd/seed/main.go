package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/student-records/internal/cache"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/database"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/seed"
	"github.com/stemsi/student-records/internal/service"
)

func main() {
	var (
		count   int
		prefix  string
		courses string
	)
	flag.IntVar(&count, "n", 50, "Number of students to generate")
	flag.StringVar(&prefix, "prefix", "Student", "Name prefix for generated students")
	flag.StringVar(&courses, "courses", "CS101,MATH201", "Comma-separated course ids to spread students over (empty for none)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.Close()

	courseService := service.NewCourseService(store.Courses, cache.NoopCourseCache{}, log)
	studentService := service.NewStudentService(store.Students, store.Courses, service.Paging{
		DefaultPerPage: cfg.DefaultPerPage,
		MaxPerPage:     cfg.MaxPerPage,
	}, log)

	if _, err := seed.SeedIfEmpty(ctx, courseService, studentService, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo records")
	}

	var courseIDs []string
	for _, id := range strings.Split(courses, ",") {
		if id = strings.TrimSpace(id); id != "" {
			courseIDs = append(courseIDs, id)
		}
	}

	fmt.Printf("=== Seeding %d Students ===\n", count)
	created, err := seed.GenerateStudents(ctx, studentService, prefix, count, courseIDs)
	if err != nil {
		log.Fatal().Err(err).Int("created", created).Msg("Failed to generate students")
	}
	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", created, count)
}

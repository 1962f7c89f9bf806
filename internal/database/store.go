package database

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/repository"
)

// Store bundles the repositories of the configured storage driver.
type Store struct {
	Courses  repository.CourseRepository
	Students repository.StudentRepository
	// Ping reports whether the backing store is reachable.
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenStore connects the storage selected by STORAGE_DRIVER. For PostgreSQL it
// applies pending migrations first when AUTO_MIGRATE is set.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	if cfg.UseMemoryStorage() {
		log.Warn().Msg("Using in-memory storage, records are lost on restart")
		mem := repository.NewMemoryStore()
		return &Store{
			Courses:  mem.Courses(),
			Students: mem.Students(),
			Ping:     func(context.Context) error { return nil },
			Close:    func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := MigrateUp(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
	}

	pool, err := NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Store{
		Courses:  repository.NewCourseRepository(pool),
		Students: repository.NewStudentRepository(pool),
		Ping:     pool.Ping,
		Close:    pool.Close,
	}, nil
}

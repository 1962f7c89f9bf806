// Package cache holds read-through caches for data that is listed on every page view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/config"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/model"
)

// RedisCourseCache caches the full course list as one JSON value.
// Redis failures are logged and reported as cache misses.
type RedisCourseCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisCourseCache creates a RedisCourseCache.
func NewRedisCourseCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisCourseCache {
	return &RedisCourseCache{
		rdb: rdb,
		ttl: ttl,
		log: logger.Component(log, "course_cache"),
	}
}

// Get returns the cached course list, if present.
func (c *RedisCourseCache) Get(ctx context.Context) ([]model.Course, bool) {
	data, err := c.rdb.Get(ctx, config.CacheKey.CourseListKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("Course cache read failed")
		}
		return nil, false
	}

	var courses []model.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		c.log.Warn().Err(err).Msg("Discarding undecodable course cache entry")
		return nil, false
	}
	return courses, true
}

// Generation returns the invalidation counter. Read it before loading the list
// from storage and pass it to Set. It returns -1 when Redis is unreachable.
func (c *RedisCourseCache) Generation(ctx context.Context) int64 {
	gen, err := c.rdb.Get(ctx, config.CacheKey.CourseListGenerationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("Course cache generation read failed")
		return -1
	}
	return gen
}

var errStaleGeneration = errors.New("course list invalidated since read")

// Set stores the course list unless an Invalidate ran after gen was read.
func (c *RedisCourseCache) Set(ctx context.Context, gen int64, courses []model.Course) {
	if gen < 0 {
		return
	}
	data, err := json.Marshal(courses)
	if err != nil {
		c.log.Warn().Err(err).Msg("Course cache marshal failed")
		return
	}

	genKey := config.CacheKey.CourseListGenerationKey()
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, config.CacheKey.CourseListKey(), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.log.Debug().Int64("generation", gen).Msg("Skipped caching stale course list")
	default:
		c.log.Warn().Err(err).Msg("Course cache write failed")
	}
}

// Invalidate drops the cached list and bumps the generation so in-flight
// reads cannot store what they loaded.
func (c *RedisCourseCache) Invalidate(ctx context.Context) {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, config.CacheKey.CourseListGenerationKey())
		pipe.Del(ctx, config.CacheKey.CourseListKey())
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("Course cache invalidation failed")
	}
}

// NoopCourseCache never caches. Used when Redis is not configured.
type NoopCourseCache struct{}

func (NoopCourseCache) Get(context.Context) ([]model.Course, bool) { return nil, false }
func (NoopCourseCache) Generation(context.Context) int64           { return 0 }
func (NoopCourseCache) Set(context.Context, int64, []model.Course) {}
func (NoopCourseCache) Invalidate(context.Context)                 {}

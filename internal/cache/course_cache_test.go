package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/model"
)

func TestRedisCourseCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	c := NewRedisCourseCache(rdb, time.Minute, zerolog.Nop())

	if _, ok := c.Get(ctx); ok {
		t.Fatal("expected miss on empty cache")
	}
	gen := c.Generation(ctx)

	courses := []model.Course{
		{ID: "CS101", Name: "Introduction to Computer Science", ProfessorName: "Dr. Smith"},
		{ID: "MATH201", Name: "Advanced Mathematics", ProfessorName: "Dr. Johnson"},
	}
	c.Set(ctx, gen, courses)

	got, ok := c.Get(ctx)
	if !ok || len(got) != 2 || got[1].ProfessorName != "Dr. Johnson" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	if ttl := mr.TTL("courses:all"); ttl != time.Minute {
		t.Fatalf("TTL = %v, want 1m", ttl)
	}

	c.Invalidate(ctx)
	if _, ok := c.Get(ctx); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestRedisCourseCacheDiscardsGarbage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	_ = mr.Set("courses:all", "not json")
	if _, ok := NewRedisCourseCache(rdb, time.Minute, zerolog.Nop()).Get(context.Background()); ok {
		t.Fatal("expected undecodable entry to be a miss")
	}
}

func TestRedisCourseCacheSkipsStaleSet(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	c := NewRedisCourseCache(rdb, time.Minute, zerolog.Nop())
	stale := []model.Course{{ID: "CS101", Name: "Deleted", ProfessorName: "Dr. Smith"}}

	gen := c.Generation(ctx)
	c.Invalidate(ctx)
	c.Set(ctx, gen, stale)
	if _, ok := c.Get(ctx); ok {
		t.Fatal("list read before invalidation must not be cached")
	}

	c.Set(ctx, c.Generation(ctx), []model.Course{})
	if _, ok := c.Get(ctx); !ok {
		t.Fatal("expected current generation to be cached")
	}
}

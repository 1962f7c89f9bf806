package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CourseListKey returns the cache key holding the serialized course list
func (r *CacheKeyStruct) CourseListKey() string {
	return "courses:all"
}

// CourseListGenerationKey returns the counter bumped on every course list invalidation
func (r *CacheKeyStruct) CourseListGenerationKey() string {
	return "courses:gen"
}

// FlashKey returns the list key holding pending flash notices for a browser session
func (r *CacheKeyStruct) FlashKey(sessionID string) string {
	return fmt.Sprintf("flash:%s", sessionID)
}

var CacheKey = NewCacheKeyStruct()

// Package flash stores one-shot notices per browser session so page handlers can
// report outcomes across a redirect.
package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/student-records/internal/config"
)

// Notice categories, used directly as CSS classes by the templates.
const (
	CategorySuccess = "success"
	CategoryDanger  = "danger"
)

// Notice is a single user-facing message.
type Notice struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Success builds a success notice.
func Success(msg string) Notice { return Notice{Category: CategorySuccess, Message: msg} }

// Danger builds an error notice.
func Danger(msg string) Notice { return Notice{Category: CategoryDanger, Message: msg} }

// Store persists notices until they are popped.
type Store interface {
	Push(ctx context.Context, sessionID string, n Notice) error
	// Pop returns and removes every pending notice for the session, oldest first.
	Pop(ctx context.Context, sessionID string) ([]Notice, error)
}

// RedisStore keeps notices in a Redis list per session.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore whose lists expire after ttl of inactivity.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Push(ctx context.Context, sessionID string, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	key := config.CacheKey.FlashKey(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, sessionID string) ([]Notice, error) {
	key := config.CacheKey.FlashKey(sessionID)

	pipe := s.rdb.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pop notices: %w", err)
	}

	raw := rangeCmd.Val()
	notices := make([]Notice, 0, len(raw))
	for _, item := range raw {
		var n Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// MemoryStore keeps notices in process memory. Used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]*memoryEntry
}

type memoryEntry struct {
	notices   []Notice
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore whose entries expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, pending: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Push(_ context.Context, sessionID string, n Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.evictExpired(now)

	e, ok := s.pending[sessionID]
	if !ok {
		e = &memoryEntry{}
		s.pending[sessionID] = e
	}
	e.notices = append(e.notices, n)
	e.expiresAt = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, sessionID string) ([]Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pending[sessionID]
	delete(s.pending, sessionID)
	if !ok || time.Now().After(e.expiresAt) {
		return []Notice{}, nil
	}
	return e.notices, nil
}

// evictExpired drops stale sessions. Callers hold mu.
func (s *MemoryStore) evictExpired(now time.Time) {
	for id, e := range s.pending {
		if now.After(e.expiresAt) {
			delete(s.pending, id)
		}
	}
}

package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// AttemptStore tracks failed authentication attempts. It is injected rather
// than process-global so a multi-instance deployment can swap the in-memory
// store for Redis.
type AttemptStore interface {
	// Blocked reports whether the key is currently locked out.
	Blocked(ctx context.Context, key string) bool

	// RecordFailure registers a failed attempt and returns the count inside
	// the current window.
	RecordFailure(ctx context.Context, key string, window, lockout time.Duration, max int) int

	// Reset clears attempts and any lockout for the key.
	Reset(ctx context.Context, key string)
}

// LoginLimiter enforces per-(identifier, client) attempt limits with a
// sliding window and temporary lockout.
type LoginLimiter struct {
	store   AttemptStore
	max     int
	window  time.Duration
	lockout time.Duration
}

// NewLoginLimiter creates a LoginLimiter over the given store.
func NewLoginLimiter(store AttemptStore, max int, window, lockout time.Duration) *LoginLimiter {
	return &LoginLimiter{store: store, max: max, window: window, lockout: lockout}
}

// Allow reports whether the identifier/client pair may attempt a login.
func (l *LoginLimiter) Allow(ctx context.Context, identifier, clientIP string) bool {
	return !l.store.Blocked(ctx, attemptKey(identifier, clientIP))
}

// Failure records a failed attempt.
func (l *LoginLimiter) Failure(ctx context.Context, identifier, clientIP string) {
	l.store.RecordFailure(ctx, attemptKey(identifier, clientIP), l.window, l.lockout, l.max)
}

// Success clears the attempt history after a successful login.
func (l *LoginLimiter) Success(ctx context.Context, identifier, clientIP string) {
	l.store.Reset(ctx, attemptKey(identifier, clientIP))
}

func attemptKey(identifier, clientIP string) string {
	return "login:" + identifier + ":" + clientIP
}

// MemoryAttemptStore is a mutex-guarded in-process AttemptStore.
type MemoryAttemptStore struct {
	mu      sync.Mutex
	entries map[string]*attemptEntry
	now     func() time.Time
}

type attemptEntry struct {
	failures    []time.Time
	lockedUntil time.Time
}

// NewMemoryAttemptStore creates an empty in-memory store.
func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{
		entries: make(map[string]*attemptEntry),
		now:     time.Now,
	}
}

// Blocked reports whether the key is locked out.
func (s *MemoryAttemptStore) Blocked(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	if e.lockedUntil.After(s.now()) {
		return true
	}
	return false
}

// RecordFailure appends a failure, prunes entries outside the window and
// starts a lockout once the threshold is reached.
func (s *MemoryAttemptStore) RecordFailure(ctx context.Context, key string, window, lockout time.Duration, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok {
		e = &attemptEntry{}
		s.entries[key] = e
	}

	kept := e.failures[:0]
	for _, t := range e.failures {
		if now.Sub(t) <= window {
			kept = append(kept, t)
		}
	}
	e.failures = append(kept, now)

	if len(e.failures) >= max {
		e.lockedUntil = now.Add(lockout)
	}
	return len(e.failures)
}

// Reset clears the key.
func (s *MemoryAttemptStore) Reset(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// RedisAttemptStore is a Redis-backed AttemptStore using INCR/EXPIRE, for
// deployments with more than one instance. Redis errors fail open so an
// unavailable cache never takes down authentication.
type RedisAttemptStore struct {
	client *redis.Client
}

// NewRedisAttemptStore creates a store over an existing Redis client.
func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{client: client}
}

// Blocked reports whether the lockout key exists.
func (s *RedisAttemptStore) Blocked(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, key+":lock").Result()
	if err != nil {
		return false
	}
	return n > 0
}

// RecordFailure increments the windowed counter and sets the lockout key
// when the threshold is reached.
func (s *RedisAttemptStore) RecordFailure(ctx context.Context, key string, window, lockout time.Duration, max int) int {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0
	}
	if count == 1 {
		s.client.Expire(ctx, key, window)
	}
	if count >= int64(max) {
		s.client.Set(ctx, key+":lock", strconv.FormatInt(count, 10), lockout)
	}
	return int(count)
}

// Reset removes the counter and lockout keys.
func (s *RedisAttemptStore) Reset(ctx context.Context, key string) {
	s.client.Del(ctx, key, key+":lock")
}

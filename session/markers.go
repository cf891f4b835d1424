// Package session provides the session-scoped marker store used to count each
// visiting session at most once per project.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MarkerStore records per-session markers. It is injected rather than reached
// for globally so handlers can be tested against the in-memory implementation.
type MarkerStore interface {
	// Mark sets the marker and reports whether it was newly set. A false
	// return means the marker already existed and the caller should skip
	// its side effect.
	Mark(ctx context.Context, key string) (bool, error)
	// Unmark removes the marker so a later attempt within the same session
	// can retry.
	Unmark(ctx context.Context, key string) error
}

// ViewedKey builds the marker key for one (session, project) pair.
func ViewedKey(sessionID, projectID string) string {
	return fmt.Sprintf("viewed:%s:%s", sessionID, projectID)
}

// MemoryStore is a process-local MarkerStore with TTL expiry. It covers
// single-instance deployments and tests; multi-instance deployments should
// share markers through the redis store instead.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Mark(ctx context.Context, key string) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.entries[key]; ok && now.Before(expiry) {
		return false, nil
	}
	s.entries[key] = now.Add(s.ttl)
	s.sweepLocked(now)
	return true, nil
}

func (s *MemoryStore) Unmark(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// sweepLocked drops expired entries once the map has grown past a threshold.
// Callers must hold the mutex.
func (s *MemoryStore) sweepLocked(now time.Time) {
	if len(s.entries) < 4096 {
		return
	}
	for key, expiry := range s.entries {
		if now.After(expiry) {
			delete(s.entries, key)
		}
	}
}

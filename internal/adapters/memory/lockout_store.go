package memory

import (
	"context"
	"sync"
	"time"

	"github.com/algonex/license-portal/internal/ports"
)

// LockoutStore is the in-memory counterpart of the Redis lockout store.
type LockoutStore struct {
	mu   sync.Mutex
	rows map[string]ports.LockoutState
}

func NewLockoutStore() *LockoutStore {
	return &LockoutStore{rows: map[string]ports.LockoutState{}}
}

func (s *LockoutStore) Get(_ context.Context, key string) (ports.LockoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[key], nil
}

func (s *LockoutStore) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.rows[key]
	state.FailedCount++
	if state.FailedCount >= threshold {
		lockedUntil := now.Add(lockoutWindow)
		state.LockedUntil = &lockedUntil
	}
	s.rows[key] = state
	return state, nil
}

func (s *LockoutStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key)
	return nil
}

package ports

import (
	"context"
	"time"
)

// LockoutState tracks failed login attempts for one lockout key.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// LockoutStore persists brute-force lockout state for login endpoints.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	// RecordFailure increments the failure counter and, once threshold is
	// reached, locks the key for lockoutWindow.
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}

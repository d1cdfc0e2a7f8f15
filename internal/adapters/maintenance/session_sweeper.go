package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/algonex/license-portal/internal/ports"
)

// SessionSweeper periodically deletes expired client sessions so the
// sessions table does not grow without bound.
type SessionSweeper struct {
	logger   *slog.Logger
	sessions ports.SessionRepository
	interval time.Duration
}

func NewSessionSweeper(logger *slog.Logger, sessions ports.SessionRepository, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionSweeper{
		logger:   logger,
		sessions: sessions,
		interval: interval,
	}
}

// Run executes the sweep loop until context cancellation.
func (s *SessionSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *SessionSweeper) sweepOnce(ctx context.Context) {
	removed, err := s.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "session sweep failed",
			"module", "maintenance.session_sweeper",
			"layer", "adapter",
			"operation", "sweep_sessions",
			"outcome", "failure",
			"error", err.Error(),
		)
		return
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "expired sessions removed",
			"module", "maintenance.session_sweeper",
			"layer", "adapter",
			"operation", "sweep_sessions",
			"outcome", "success",
			"removed", removed,
		)
	}
}

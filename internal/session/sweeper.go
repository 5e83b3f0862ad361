package session

import (
	"context"
	"log/slog"
	"time"
)

// StartSweeper removes expired sessions immediately and then every interval
// until ctx is cancelled. keep protects sessions that are still in use.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration, keep func(id string) bool) {
	if s.ttl <= 0 || interval <= 0 {
		slog.Info("session sweeper disabled")
		return
	}

	slog.Info("session sweeper started", "ttl", s.ttl.String(), "interval", interval.String())

	s.sweepOnce(keep)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce(keep)
		}
	}
}

func (s *Store) sweepOnce(keep func(id string) bool) {
	start := time.Now()
	removed, err := s.Sweep(keep)
	if err != nil {
		slog.Error("session sweep failed", "error", err, "removed", removed)
		return
	}
	if removed > 0 {
		slog.Info("expired sessions removed",
			"removed", removed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// schedulePeriodicRebuilds requests a rebuild through the coalescing worker
// on a fixed interval. Useful when the source tree changes without local
// filesystem events (synced mounts, generated content).
func (s *Server) schedulePeriodicRebuilds(interval time.Duration) (func(), error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled rebuild requested", slog.Duration("interval", interval))
			s.debounce.Request()
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}

	scheduler.Start()
	slog.Info("Scheduled rebuilds enabled", slog.Duration("interval", interval))

	return func() {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown failed", "error", err)
		}
	}, nil
}

package app

import (
	"context"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

// Scheduler runs the automatic sync cycle on a fixed interval. A failed
// cycle is logged and the next tick retries from scratch.
type Scheduler struct {
	sync         *usecase.SyncService
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *logging.Logger
	stop         chan struct{}
	done         chan struct{}
}

func NewScheduler(sync *usecase.SyncService, interval, cycleTimeout time.Duration, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		sync:         sync,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		logger:       logger,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the ticker loop. The first cycle runs after one full
// interval, not immediately, so restarts do not hammer the feed.
func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sync scheduler started", "interval", s.interval.String())

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.runCycle()
		}
	}
}

func (s *Scheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cycleTimeout)
	defer cancel()

	started := time.Now()
	report, err := s.sync.AutoSync(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled sync failed",
			"error", err,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		return
	}

	s.logger.InfoContext(ctx, "scheduled sync finished",
		"created", len(report.Created),
		"updated", report.Updated,
		"failed", len(report.Failed),
		"skipped", report.Skipped,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// Stop halts the loop and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

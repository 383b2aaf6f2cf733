package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs recurring cleanup runs on a cron schedule in daemon mode.
type Scheduler struct {
	engine   *Engine
	schedule string
	opts     RunOptions
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler that runs the engine with the given run
// options on each tick.
func NewScheduler(engine *Engine, schedule string, opts RunOptions) *Scheduler {
	return &Scheduler{
		engine:   engine,
		schedule: schedule,
		opts:     opts,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "engine.scheduler"),
	}
}

// Start begins scheduled runs. Common expressions:
//
//   - "0 3 * * *"   - daily at 3 AM
//   - "0 */6 * * *" - every 6 hours
//   - "0 0 * * 0"   - weekly on Sunday at midnight
//
// An empty schedule is a no-op. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("no schedule configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup runs: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cleanup scheduler started",
		"schedule", s.schedule,
		"roots", s.opts.Roots,
		"dry_run", s.opts.DryRun,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runOnce executes one scheduled cleanup cycle.
func (s *Scheduler) runOnce(ctx context.Context) {
	s.logger.Info("starting scheduled cleanup run")

	rep, err := s.engine.Run(ctx, s.opts)
	if err != nil {
		s.logger.Error("scheduled cleanup run failed", "error", err)
		return
	}
	s.logger.Info("scheduled cleanup run completed", "summary", rep.Summary())
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // wait for running jobs to finish
		s.running = false
		s.logger.Info("cleanup scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

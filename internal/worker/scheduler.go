package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is a unit of scheduled work
type JobFunc func(ctx context.Context) error

// Scheduler fires jobs on cron schedules and runs each firing through the pool
type Scheduler struct {
	cron   *cron.Cron
	pool   *Pool
	logger *slog.Logger
}

// NewScheduler creates a scheduler whose specs accept an optional leading seconds field
func NewScheduler(pool *Pool, logger *slog.Logger) *Scheduler {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		cron:   cron.New(cron.WithParser(parser)),
		pool:   pool,
		logger: logger,
	}
}

// Add registers job under spec. Each run gets at most timeout to finish.
func (s *Scheduler) Add(name, spec string, timeout time.Duration, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.pool.SubmitWithTimeout(name, timeout, func(ctx context.Context) {
			s.run(ctx, name, job)
		})
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}

	s.logger.Info("⏰ [Scheduler] Job registered", "job", name, "schedule", spec)
	return nil
}

// RunNow runs job once in the pool, outside its schedule
func (s *Scheduler) RunNow(name string, timeout time.Duration, job JobFunc) {
	s.pool.SubmitWithTimeout(name, timeout, func(ctx context.Context) {
		s.run(ctx, name, job)
	})
}

func (s *Scheduler) run(ctx context.Context, name string, job JobFunc) {
	startTime := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("❌ [Scheduler] Job failed", "job", name, "error", err)
		return
	}
	s.logger.Debug("✅ [Scheduler] Job finished", "job", name, "duration", time.Since(startTime))
}

// Start begins firing jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("🚀 [Scheduler] Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops firing new jobs and waits for in-flight cron callbacks to hand off to the pool
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("🛑 [Scheduler] Scheduler stopped")
}

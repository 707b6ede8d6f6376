// Package scheduler refreshes the dashboard mirror in the background on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/coinly/coinly/internal/apperror"
	"github.com/coinly/coinly/internal/dashboard"
)

// Config holds the scheduler configuration
type Config struct {
	// Schedule is a standard 5-field cron expression (e.g. "*/5 * * * *").
	Schedule string
	// Timeout bounds a single refresh.
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule: "*/5 * * * *",
		Timeout:  30 * time.Second,
		Enabled:  false,
	}
}

// Refresher is refreshed on every tick. dashboard.Controller satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs periodic refreshes.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	config    Config
	logger    *slog.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	lastRun time.Time
	lastErr error
}

// New creates a new Scheduler instance
func New(cfg Config, refresher Refresher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		refresher: refresher,
		config:    cfg,
		logger:    logger,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	// cron runs with a seconds field; pin it to 0.
	schedule := "0 " + s.config.Schedule

	entryID, err := s.cron.AddFunc(schedule, func() {
		_ = s.runRefreshJob(context.Background())
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entryID = entryID
	s.mu.Unlock()
	s.cron.Start()

	s.logger.Info("Scheduler started",
		slog.String("schedule", s.config.Schedule),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop stops the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunNow performs one refresh immediately and returns its error.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.runRefreshJob(ctx)
}

func (s *Scheduler) runRefreshJob(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	err := s.refresher.Refresh(ctx)
	duration := time.Since(startTime)

	s.mu.Lock()
	s.lastRun = startTime
	s.lastErr = err
	s.mu.Unlock()

	switch {
	case errors.Is(err, apperror.ErrUnauthenticated):
		s.logger.Debug("Skipping refresh, no signed-in user")
	case errors.Is(err, dashboard.ErrInvalidState):
		s.logger.Debug("Skipping refresh, dashboard not loaded")
	case err != nil:
		s.logger.Error("Refresh job failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
	default:
		s.logger.Debug("Refresh job completed",
			slog.Duration("duration", duration),
		)
	}
	return err
}

// NextRun returns the next scheduled run time, or the zero time when not started.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	id := s.entryID
	s.mu.Unlock()
	if id == 0 {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// LastRun returns when the last refresh started and how it ended.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}

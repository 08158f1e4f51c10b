// Package scheduler runs background housekeeping for generated memos.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cleaner removes stored files older than a given age
type Cleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// RetentionConfig holds configuration for the PDF retention scheduler
type RetentionConfig struct {
	// RetentionDays is how long a generated PDF is kept. Zero disables cleanup.
	RetentionDays int

	// CleanupHour is the hour (0-23) when the daily cleanup runs
	CleanupHour int

	// Timeout bounds a single cleanup run
	Timeout time.Duration
}

// DefaultRetentionConfig returns default configuration with cleanup disabled
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		CleanupHour: 3,
		Timeout:     15 * time.Minute,
	}
}

// RetentionScheduler deletes old PDFs from storage once per day.
// Print job rows are kept; downloading a purged job reports PDF_NOT_AVAILABLE.
type RetentionScheduler struct {
	cleaner   Cleaner
	logger    *zap.Logger
	config    RetentionConfig
	now       func() time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRetentionScheduler creates a new retention scheduler
func NewRetentionScheduler(cleaner Cleaner, logger *zap.Logger, config RetentionConfig) *RetentionScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultRetentionConfig().Timeout
	}
	if config.CleanupHour < 0 || config.CleanupHour > 23 {
		config.CleanupHour = DefaultRetentionConfig().CleanupHour
	}
	return &RetentionScheduler{
		cleaner: cleaner,
		logger:  logger,
		config:  config,
		now:     time.Now,
	}
}

// Enabled reports whether the scheduler will do any work
func (s *RetentionScheduler) Enabled() bool {
	return s.cleaner != nil && s.config.RetentionDays > 0
}

// Start launches the daily cleanup loop. It is a no-op when disabled or already running.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.Enabled() {
		s.mu.Unlock()
		s.logger.Info("PDF retention scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runDaily(ctx)

	s.logger.Info("PDF retention scheduler started",
		zap.Int("retention_days", s.config.RetentionDays),
		zap.Int("cleanup_hour", s.config.CleanupHour),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *RetentionScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("PDF retention scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("PDF retention scheduler stop timed out")
		return ctx.Err()
	}
}

// nextRun returns the next occurrence of the cleanup hour after now
func (s *RetentionScheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CleanupHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *RetentionScheduler) runDaily(ctx context.Context) {
	defer s.wg.Done()

	for {
		now := s.now()
		next := s.nextRun(now)
		delay := next.Sub(now)

		s.logger.Debug("PDF cleanup scheduled",
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("PDF cleanup failed", zap.Error(err))
			}
		}
	}
}

// RunOnce deletes PDFs older than the retention period and returns how many were removed
func (s *RetentionScheduler) RunOnce(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	age := time.Duration(s.config.RetentionDays) * 24 * time.Hour
	started := s.now()
	removed, err := s.cleaner.CleanupOlderThan(ctx, age)
	if err != nil {
		return removed, err
	}

	s.logger.Info("PDF cleanup completed",
		zap.Int("removed", removed),
		zap.Duration("max_age", age),
		zap.Duration("duration", s.now().Sub(started)),
	)
	return removed, nil
}

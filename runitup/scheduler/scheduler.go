package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler owns every background goroutine the bot runs and gives them
// a shared lifecycle so shutdown can wait for in-flight work.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	jobs   map[string]context.CancelFunc
	mu     sync.Mutex
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]context.CancelFunc),
	}
}

// StartInterval runs fn once per interval, starting one interval from now.
func (s *Scheduler) StartInterval(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.start(name, func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runJob(ctx, name, fn)
			}
		}
	})
}

// StartDaily runs fn once per day at the given UTC hour.
func (s *Scheduler) StartDaily(name string, hourUTC int, fn func(ctx context.Context) error) {
	s.start(name, func(ctx context.Context) {
		for {
			timer := time.NewTimer(untilNextRun(time.Now().UTC(), hourUTC))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				s.runJob(ctx, name, fn)
			}
		}
	})
}

func untilNextRun(now time.Time, hourUTC int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

func (s *Scheduler) start(name string, loop func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, exists := s.jobs[name]; exists {
		slog.Warn("Job already scheduled, replacing it", slog.String("job", name))
		cancel()
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)
	s.jobs[name] = jobCancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		slog.Info("Scheduled job started",
			slog.String("type", "task"),
			slog.String("job", name))

		loop(jobCtx)

		slog.Info("Scheduled job stopped",
			slog.String("type", "task"),
			slog.String("job", name))
	}()
}

func (s *Scheduler) runJob(ctx context.Context, name string, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Scheduled job panic",
				slog.String("type", "task"),
				slog.String("job", name),
				slog.Any("panic", r))
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil {
		slog.Error("Scheduled job failed",
			slog.String("type", "task"),
			slog.String("job", name),
			slog.String("error", err.Error()))
		return
	}

	slog.Info("Scheduled job finished",
		slog.String("type", "task"),
		slog.String("job", name),
		slog.Duration("took", time.Since(start)))
}

// Shutdown cancels every job and waits for them to drain.
func (s *Scheduler) Shutdown(timeout time.Duration) error {
	s.mu.Lock()
	count := len(s.jobs)
	s.mu.Unlock()

	slog.Info("Stopping scheduled jobs", slog.Int("job_count", count))
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for scheduled jobs to stop",
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

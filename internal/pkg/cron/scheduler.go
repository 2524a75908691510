package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// JobFunc is a unit of scheduled work. It must respect ctx cancellation.
type JobFunc func(ctx context.Context) error

type job struct {
	name  string
	every time.Duration
	fn    JobFunc
}

// Scheduler runs registered jobs on fixed intervals. Jobs that should fire
// only at a specific wall-clock time gate themselves internally, so the
// interval just bounds how often that gate is checked.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register adds a job. Jobs registered after Start are not picked up until
// the next Start, so wire everything up front.
func (s *Scheduler) Register(name string, every time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job{name: name, every: every, fn: fn})
	slog.Info("scheduled job registered", "job", name, "every", every)
}

// Start launches one worker per registered job. Each job runs once
// immediately, then on every interval tick. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	for _, j := range s.jobs {
		s.wg.Add(1)
		go func(j job) {
			defer s.wg.Done()
			s.loop(ctx, j)
		}(j)
	}
	slog.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop cancels all workers and blocks until in-flight runs return. Safe to
// call without a prior Start, and safe to call twice.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.running = false
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	s.invoke(ctx, j)

	ticker := time.NewTicker(j.every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.invoke(ctx, j)
		}
	}
}

func (s *Scheduler) invoke(ctx context.Context, j job) {
	start := time.Now()
	if err := j.fn(ctx); err != nil {
		slog.Error("scheduled job failed", "job", j.name, "error", err, "took", time.Since(start))
		return
	}
	slog.Debug("scheduled job done", "job", j.name, "took", time.Since(start))
}

// RunNow executes every registered job once, synchronously, and reports the
// combined failures. Used by tests and one-off maintenance commands.
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.mu.Lock()
	jobs := make([]job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	var errs []error
	for _, j := range jobs {
		if err := j.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.name, err))
		}
	}
	return errors.Join(errs...)
}

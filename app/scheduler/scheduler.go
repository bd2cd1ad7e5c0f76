// Package scheduler runs the pipeline on a fixed interval in serve mode.
// Runs are strictly serialized: the store files are plain JSON with no
// locking, so at most one pipeline invocation may be in flight at a time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ainewslab/autopress/app/cfg"
)

// Runner executes one full pipeline invocation (generate + publish).
type Runner interface {
	RunPipeline(ctx context.Context) error
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	trigger  chan struct{}

	mu      sync.Mutex
	running bool
}

func NewScheduler(runner Runner) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		runner:   runner,
		interval: time.Duration(cfg.SchedulerInterval) * time.Second,
		ctx:      ctx,
		cancel:   cancel,
		trigger:  make(chan struct{}, 1),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		slog.Info("Scheduler started", "interval", s.interval.String())

		// One run on startup so a fresh deployment publishes without
		// waiting a full interval.
		s.execute()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.execute()
			case <-s.trigger:
				s.execute()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// TriggerRun requests an immediate pipeline run. It returns an error if a
// run is already in flight or already queued.
func (s *Scheduler) TriggerRun() error {
	s.mu.Lock()
	inFlight := s.running
	s.mu.Unlock()
	if inFlight {
		return fmt.Errorf("a pipeline run is already in progress")
	}

	select {
	case s.trigger <- struct{}{}:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("a pipeline run is already queued")
	}
}

// IsRunning reports whether a pipeline run is currently in flight.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) execute() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Warn("Pipeline run still in progress, skipping this tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithTimeout(s.ctx, 10*time.Minute)
	defer cancel()

	started := time.Now()
	if err := s.runner.RunPipeline(runCtx); err != nil {
		slog.Error("Scheduled pipeline run failed", "error", err, "duration", time.Since(started).String())
		return
	}
	slog.Info("Scheduled pipeline run finished", "duration", time.Since(started).String())
}

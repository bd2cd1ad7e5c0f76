package scheduler

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ainewslab/autopress/app/cfg"
)

func setupTestConfig(t *testing.T) {
	t.Helper()

	// Clear os.Args to prevent config parsing from failing
	oldArgs := os.Args
	os.Args = []string{"test"}
	t.Cleanup(func() { os.Args = oldArgs })

	t.Setenv("SCHEDULER_INTERVAL", "3600")

	if _, err := cfg.Load(); err != nil {
		t.Fatalf("Failed to load test config: %v", err)
	}
}

type fakeRunner struct {
	mu      sync.Mutex
	runs    int
	block   chan struct{}
	started chan struct{}
}

func (f *fakeRunner) RunPipeline(ctx context.Context) error {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeRunner) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func TestStartRunsOnStartup(t *testing.T) {
	setupTestConfig(t)

	runner := &fakeRunner{started: make(chan struct{}, 1)}
	s := NewScheduler(runner)
	s.Start()
	defer s.Stop()

	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a startup run")
	}

	if runner.runCount() != 1 {
		t.Errorf("Expected exactly one run, got %d", runner.runCount())
	}
}

func TestTriggerRunWhileInFlight(t *testing.T) {
	setupTestConfig(t)

	runner := &fakeRunner{
		block:   make(chan struct{}),
		started: make(chan struct{}, 2),
	}
	s := NewScheduler(runner)
	s.Start()
	defer s.Stop()

	// Wait for the startup run to be in flight.
	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a startup run")
	}

	if !s.IsRunning() {
		t.Error("Expected IsRunning while a run is blocked")
	}
	if err := s.TriggerRun(); err == nil {
		t.Error("Expected TriggerRun to fail while a run is in flight")
	}

	close(runner.block)
}

func TestTriggerRunExecutes(t *testing.T) {
	setupTestConfig(t)

	runner := &fakeRunner{started: make(chan struct{}, 2)}
	s := NewScheduler(runner)
	s.Start()
	defer s.Stop()

	// Let the startup run finish first.
	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a startup run")
	}

	// A manual trigger may briefly race the startup run winding down.
	var err error
	for i := 0; i < 50; i++ {
		if err = s.TriggerRun(); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("TriggerRun failed: %v", err)
	}

	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected the triggered run to start")
	}
}

func TestStopWaitsForWorker(t *testing.T) {
	setupTestConfig(t)

	runner := &fakeRunner{}
	s := NewScheduler(runner)
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

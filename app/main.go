package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ainewslab/autopress/app/api"
	"github.com/ainewslab/autopress/app/cfg"
	"github.com/ainewslab/autopress/app/drafting"
	"github.com/ainewslab/autopress/app/pipeline"
	"github.com/ainewslab/autopress/app/publisher"
	"github.com/ainewslab/autopress/app/research"
	"github.com/ainewslab/autopress/app/runlog"
	"github.com/ainewslab/autopress/app/scheduler"
	"github.com/ainewslab/autopress/app/store"
	"github.com/ainewslab/autopress/app/topic"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)
	slog.Info("Starting autopress", "version", appCfg.Version)

	app, err := buildApp(appCfg)
	if err != nil {
		slog.Error("Startup failed", "error", err)
		os.Exit(1)
	}
	defer app.archive.Close()

	if appCfg.Serve {
		runServer(appCfg, app)
		return
	}

	// Default mode: a single pipeline invocation.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := app.RunPipeline(ctx); err != nil {
		slog.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// app wires the pipeline components together. It implements
// scheduler.Runner, so serve mode reuses the exact one-shot run path.
type app struct {
	store     *store.Store
	generator *pipeline.Generator
	publisher *publisher.Publisher
	archive   *runlog.Archive
}

func buildApp(appCfg *cfg.Cfg) (*app, error) {
	// The drafting credential is checked before anything touches the data
	// files; a run that cannot draft must not mutate any collection.
	models, err := drafting.LoadModelsConfig(appCfg.ModelsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load model configuration: %w", err)
	}

	drafter, err := drafting.NewClient(appCfg.AnthropicAPIKey, models)
	if err != nil {
		return nil, err
	}

	st := store.New(appCfg.DataDir)
	resolver := topic.NewResolver(drafter)
	enricher := research.NewFetcher(nil, appCfg.UserAgent)
	generator := pipeline.NewGenerator(st, resolver, drafter, enricher, appCfg.DedupWindowDays)
	pub := publisher.NewPublisher(st)

	archive, err := runlog.Open(filepath.Join(appCfg.OutputDir, "runs.db"))
	if err != nil {
		return nil, err
	}

	return &app{
		store:     st,
		generator: generator,
		publisher: pub,
		archive:   archive,
	}, nil
}

// RunPipeline executes one generate-and-publish cycle.
func (a *app) RunPipeline(ctx context.Context) error {
	result, err := a.generator.Run(ctx)
	if err != nil {
		return err
	}

	status, err := a.publisher.Run(result)
	if err != nil {
		return err
	}

	// Archive failures must not fail the run; the published artifacts are
	// already on disk at this point.
	if err := a.archive.RecordRun(status); err != nil {
		slog.Warn("Failed to archive run", "error", err)
	}

	return nil
}

func runServer(appCfg *cfg.Cfg, a *app) {
	sched := scheduler.NewScheduler(a)
	sched.Start()
	defer sched.Stop()

	handler := api.NewHandler(a.store, a.archive, sched)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

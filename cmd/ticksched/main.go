package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nebulacoro/internal/host"
	"nebulacoro/internal/sched"
)

func main() {
	path := flag.String("config", "config.yml", "path to the YAML config")
	flag.Parse()

	// Read the configuration
	cfg := sched.Load(*path)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	logger.Info("loaded config", "config", fmt.Sprintf("%+v", cfg))

	var schedOpts []sched.Option
	if cfg.EventLog != "" {
		f, err := os.Create(cfg.EventLog)
		if err != nil {
			logger.Error("open event log", "path", cfg.EventLog, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		rec := sched.NewCSVRecorder(f, false)
		schedOpts = append(schedOpts, sched.WithObserver(rec.Observe))
	}

	rt := host.New(cfg,
		host.WithLogger(logger),
		host.WithSchedulerOptions(schedOpts...),
	)
	if _, err := rt.Add(&Spawner{MaxEnemies: 5, Interval: 0.5}); err != nil {
		logger.Error("attach spawner", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil {
		logger.Error("frame loop aborted", "error", err)
		os.Exit(1)
	}
}

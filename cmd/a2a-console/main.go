// Command a2a-console runs the A2A bot over stdin and stdout.
//
// Each input line is "<nick> <text>"; "/part <nick>", "/quit <nick>" and
// "/nick <old> <new>" report membership changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"a2a/internal/app"
	"a2a/internal/config"
	"a2a/internal/engine"
	"a2a/internal/logging"
	"a2a/internal/ports/console"
	"a2a/internal/storage/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.EnvironMap(os.Environ()))
	if err != nil {
		return err
	}
	logger := logging.ForFormat(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(ctx, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open card store: %w", err)
	}
	defer store.Close()

	runner := engine.New(engine.Config{
		Transport: console.New(os.Stdin, os.Stdout, cfg.BotName, cfg.QueueSize, logger.WithField("component", "console")),
		Catalog:   store,
		Recorder:  store,
		Service:   app.NewService(nil, cfg.Timings()),
		Logger:    logger.WithField("component", "runner"),
		Observers: engine.Observers{
			OnFault: func(fault *engine.FaultError) {
				logger.Error("A2A: turn fault: %v", fault)
			},
		},
	})

	logger.Info("A2A console bot started, store %s", cfg.StorePath)
	runner.Run(ctx)
	logger.Info("A2A console bot stopped")
	return nil
}

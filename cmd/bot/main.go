package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"finbot/internal/broker"
	"finbot/internal/config"
	"finbot/internal/engine"
	"finbot/internal/fmp"
	"finbot/internal/risk"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	setupLogger(cfg.LogFormat)

	runID := uuid.NewString()
	decisions, err := engine.NewDecisionLogger(cfg.DecisionsPath, runID)
	if err != nil {
		log.Fatalf("decision logger error: %v", err)
	}
	defer func() {
		if err := decisions.Close(); err != nil {
			log.Printf("failed to close decision logger: %v", err)
		}
	}()

	prices := fmp.New(cfg.FMPBaseURL, cfg.FMPAPIKey)
	brokerClient := broker.New(cfg.AlpacaKey, cfg.AlpacaSecret, cfg.AlpacaBaseURL)
	runner := engine.NewRunner(cfg, prices, brokerClient, risk.Gate{}, decisions)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting run", "run_id", runID, "symbol", cfg.Symbol, "fast", cfg.FastWindow, "slow", cfg.SlowWindow, "lookback_days", cfg.LookbackDays)
	if err := runner.Run(ctx); err != nil {
		_ = decisions.Close()
		log.Fatalf("run failed: %v", err)
	}
	slog.Info("run complete", "run_id", runID)
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"finbot/internal/config"
	"finbot/internal/fmp"
	"finbot/internal/insights"
	"finbot/internal/llm"
	"finbot/internal/llm/ollama"
	"finbot/internal/llm/openai"
	"finbot/internal/notify"
	"finbot/internal/report"
)

func main() {
	cfg, err := config.LoadInsights(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	setupLogger(cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	market := fmp.New(cfg.FMPBaseURL, cfg.FMPAPIKey)

	var provider llm.Provider
	switch cfg.Provider {
	case "ollama":
		provider = ollama.New(cfg.OllamaURL, cfg.Model)
	default:
		provider = openai.New("", cfg.OpenAIKey, cfg.Model)
	}

	generator := insights.NewGenerator(market, llm.New(provider), cfg.Temperature)

	rep, err := generator.Generate(ctx, cfg.Symbol, cfg.LookbackDays, cfg.NewsLimit)
	if err != nil {
		log.Fatalf("generate insights: %v", err)
	}

	fmt.Println(rep.Insights)

	if cfg.CSVPath != "" {
		if err := report.WriteCSV(cfg.CSVPath, rep); err != nil {
			log.Fatalf("write csv report: %v", err)
		}
		slog.Info("csv report written", "path", cfg.CSVPath)
	}

	if cfg.TelegramEnabled() {
		telegram := notify.NewTelegram("", cfg.TelegramToken, cfg.ChatID)
		if err := telegram.SendMessage(ctx, buildAlert(rep, cfg.CSVPath)); err != nil {
			log.Fatalf("send telegram alert: %v", err)
		}
	}
}

// buildAlert keeps the Markdown minimal; Telegram's parser chokes on
// anything fancier.
func buildAlert(rep insights.Report, csvPath string) string {
	msg := fmt.Sprintf("*Financial Insights*\n*Asset:* %s\n\n*Price:* %s\n\n*Insights:*\n%s",
		rep.Symbol, rep.PriceSummary, rep.Insights)
	if csvPath != "" {
		msg += fmt.Sprintf("\n\nCSV report: %s", csvPath)
	}
	return msg
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// InsightsConfig carries the run parameters for the insights pipeline.
type InsightsConfig struct {
	Symbol       string
	LookbackDays int
	NewsLimit    int
	Provider     string // openai or ollama
	Model        string
	Temperature  float64
	OllamaURL    string
	FMPBaseURL   string
	CSVPath      string
	ChatID       string
	LogFormat    string

	FMPAPIKey     string
	OpenAIKey     string
	TelegramToken string
}

// TelegramEnabled reports whether the run should send a Telegram alert.
// The alert is optional: it needs both a bot token and a chat id.
func (c InsightsConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.ChatID != ""
}

func LoadInsights(args []string) (InsightsConfig, error) {
	_ = godotenv.Load()

	cfg := InsightsConfig{
		Symbol:       "AAPL",
		LookbackDays: 60,
		NewsLimit:    3,
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Temperature:  0.3,
		OllamaURL:    "http://localhost:11434",
		FMPBaseURL:   "https://financialmodelingprep.com/api/v3",
		LogFormat:    "text",
	}

	fs := flag.NewFlagSet("insights", flag.ContinueOnError)
	fs.StringVar(&cfg.Symbol, "symbol", cfg.Symbol, "symbol to analyze")
	fs.IntVar(&cfg.LookbackDays, "lookback-days", cfg.LookbackDays, "trading days for the price trend summary")
	fs.IntVar(&cfg.NewsLimit, "news-limit", cfg.NewsLimit, "number of headlines to include")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "llm provider: openai or ollama")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "model name")
	fs.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "sampling temperature")
	fs.StringVar(&cfg.OllamaURL, "ollama-url", cfg.OllamaURL, "ollama base URL")
	fs.StringVar(&cfg.FMPBaseURL, "fmp-base-url", cfg.FMPBaseURL, "FMP API base URL")
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "path for the csv report, empty to skip")
	fs.StringVar(&cfg.ChatID, "telegram-chat-id", cfg.ChatID, "telegram chat id for the alert")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return InsightsConfig{}, err
	}

	cfg.FMPAPIKey = os.Getenv("FMP_API_KEY")
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.ChatID == "" {
		cfg.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	}

	if err := validateInsights(cfg); err != nil {
		return InsightsConfig{}, err
	}
	return cfg, nil
}

func validateInsights(cfg InsightsConfig) error {
	if cfg.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if cfg.LookbackDays <= 1 {
		return fmt.Errorf("lookback-days must be > 1")
	}
	if cfg.NewsLimit < 0 {
		return fmt.Errorf("news-limit must be >= 0")
	}
	if cfg.Provider != "openai" && cfg.Provider != "ollama" {
		return fmt.Errorf("provider must be openai or ollama")
	}
	if cfg.Model == "" {
		return fmt.Errorf("model is required")
	}
	if cfg.FMPAPIKey == "" {
		return fmt.Errorf("FMP_API_KEY is required")
	}
	if cfg.Provider == "openai" && cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
	}
	return nil
}

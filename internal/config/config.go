package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries every run parameter for the trading bot. Nothing here is
// read back from any state store: a run is fully described by its config.
type Config struct {
	Symbol        string  `yaml:"symbol"`
	LookbackDays  int     `yaml:"lookback_days"`
	FastWindow    int     `yaml:"fast_window"`
	SlowWindow    int     `yaml:"slow_window"`
	OrderQty      int     `yaml:"order_qty"`
	MaxQty        int     `yaml:"max_qty"`
	MaxNotional   float64 `yaml:"max_notional"`
	KillSwitch    bool    `yaml:"kill_switch"`
	DecisionsPath string  `yaml:"decisions_path"`
	FMPBaseURL    string  `yaml:"fmp_base_url"`
	AlpacaBaseURL string  `yaml:"alpaca_base_url"`
	LogFormat     string  `yaml:"log_format"`

	// Credentials come from the environment (or .env), never from flags or
	// the config file.
	FMPAPIKey    string `yaml:"-"`
	AlpacaKey    string `yaml:"-"`
	AlpacaSecret string `yaml:"-"`
}

func defaults() Config {
	return Config{
		Symbol:        "AAPL",
		LookbackDays:  120,
		FastWindow:    20,
		SlowWindow:    50,
		OrderQty:      1,
		MaxQty:        1,
		MaxNotional:   1000,
		DecisionsPath: "decisions.ndjson",
		FMPBaseURL:    "https://financialmodelingprep.com/api/v3",
		AlpacaBaseURL: "https://paper-api.alpaca.markets",
		LogFormat:     "text",
	}
}

// Load builds the bot config from an optional YAML file, flags and the
// environment. Flags win over the file, the file over defaults.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	fs := flag.NewFlagSet("bot", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to yaml config file")
	fs.StringVar(&cfg.Symbol, "symbol", cfg.Symbol, "trading symbol")
	fs.IntVar(&cfg.LookbackDays, "lookback-days", cfg.LookbackDays, "trading days of price history to fetch")
	fs.IntVar(&cfg.FastWindow, "fast-window", cfg.FastWindow, "fast SMA window length")
	fs.IntVar(&cfg.SlowWindow, "slow-window", cfg.SlowWindow, "slow SMA window length")
	fs.IntVar(&cfg.OrderQty, "order-qty", cfg.OrderQty, "unit quantity for entry orders")
	fs.IntVar(&cfg.MaxQty, "max-qty", cfg.MaxQty, "max position size")
	fs.Float64Var(&cfg.MaxNotional, "max-notional", cfg.MaxNotional, "max notional per order")
	fs.BoolVar(&cfg.KillSwitch, "kill-switch", cfg.KillSwitch, "if true, never place orders")
	fs.StringVar(&cfg.DecisionsPath, "decisions-path", cfg.DecisionsPath, "path to decisions log")
	fs.StringVar(&cfg.FMPBaseURL, "fmp-base-url", cfg.FMPBaseURL, "FMP API base URL")
	fs.StringVar(&cfg.AlpacaBaseURL, "alpaca-base-url", cfg.AlpacaBaseURL, "Alpaca trading base URL")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	// First pass to pick up --config, then re-apply flags so they override
	// file values.
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *configPath != "" {
		if err := loadYAML(*configPath, &cfg); err != nil {
			return Config{}, err
		}
		if err := fs.Parse(args); err != nil {
			return Config{}, err
		}
	}

	cfg.FMPAPIKey = os.Getenv("FMP_API_KEY")
	cfg.AlpacaKey = os.Getenv("APCA_API_KEY_ID")
	cfg.AlpacaSecret = os.Getenv("APCA_API_SECRET_KEY")

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if cfg.FastWindow <= 0 {
		return fmt.Errorf("fast-window must be > 0")
	}
	if cfg.SlowWindow <= cfg.FastWindow {
		return fmt.Errorf("slow-window must be > fast-window")
	}
	if cfg.LookbackDays < cfg.SlowWindow {
		return fmt.Errorf("lookback-days must be >= slow-window")
	}
	if cfg.OrderQty <= 0 {
		return fmt.Errorf("order-qty must be > 0")
	}
	if cfg.MaxQty < cfg.OrderQty {
		return fmt.Errorf("max-qty must be >= order-qty")
	}
	if cfg.MaxNotional <= 0 {
		return fmt.Errorf("max-notional must be > 0")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("log-format must be text or json")
	}
	if cfg.FMPAPIKey == "" {
		return fmt.Errorf("FMP_API_KEY is required")
	}
	if cfg.AlpacaKey == "" || cfg.AlpacaSecret == "" {
		return fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required")
	}
	return nil
}

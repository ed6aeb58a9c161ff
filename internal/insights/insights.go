package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finbot/internal/fmp"
	"finbot/internal/insights/prompts"
	"finbot/internal/llm"
	"finbot/internal/strategy"

	"github.com/shopspring/decimal"
)

// MarketData is the slice of the FMP client the generator consumes.
type MarketData interface {
	DailyCloses(ctx context.Context, symbol string, days int) (strategy.Series, error)
	Quote(ctx context.Context, symbol string) (fmp.Quote, error)
	Profile(ctx context.Context, symbol string) (fmp.Profile, error)
	News(ctx context.Context, symbol string, limit int) ([]fmp.NewsItem, error)
}

// Report is one completed analysis for a symbol.
type Report struct {
	Symbol       string
	GeneratedAt  time.Time
	PriceSummary string
	Fundamentals string
	News         string
	Insights     string
}

// Generator assembles market context from FMP and asks a model for insights.
type Generator struct {
	market      MarketData
	client      *llm.Client
	temperature float64
}

func NewGenerator(market MarketData, client *llm.Client, temperature float64) *Generator {
	generator := &Generator{
		market:      market,
		client:      client,
		temperature: temperature,
	}
	client.RegisterTool(quoteTool{market: market})
	client.RegisterTool(newsTool{market: market})
	return generator
}

func (g *Generator) Generate(ctx context.Context, symbol string, lookbackDays, newsLimit int) (Report, error) {
	priceSummary, err := g.priceSummary(ctx, symbol, lookbackDays)
	if err != nil {
		return Report{}, err
	}

	fundamentals, err := g.fundamentals(ctx, symbol)
	if err != nil {
		return Report{}, err
	}

	news, err := g.headlines(ctx, symbol, newsLimit)
	if err != nil {
		return Report{}, err
	}

	prompt, err := prompts.RenderReportPrompt(prompts.DefaultReportPrompt(), prompts.ReportData{
		Symbol:       symbol,
		PriceSummary: priceSummary,
		Fundamentals: fundamentals,
		News:         news,
	})
	if err != nil {
		return Report{}, fmt.Errorf("render report prompt: %w", err)
	}

	slog.Info("requesting insights", "symbol", symbol, "lookback_days", lookbackDays)
	resp, err := g.client.Complete(ctx, prompt,
		llm.WithSystemPrompt(prompts.DefaultSystemPrompt()),
		llm.WithTemperature(g.temperature),
	)
	if err != nil {
		return Report{}, fmt.Errorf("generate insights for %s: %w", symbol, err)
	}

	return Report{
		Symbol:       symbol,
		GeneratedAt:  time.Now().UTC(),
		PriceSummary: priceSummary,
		Fundamentals: fundamentals,
		News:         news,
		Insights:     strings.TrimSpace(resp.Message.Content),
	}, nil
}

// priceSummary condenses the close series into one trend line the model
// (and the Telegram alert) can quote directly.
func (g *Generator) priceSummary(ctx context.Context, symbol string, days int) (string, error) {
	series, err := g.market.DailyCloses(ctx, symbol, days)
	if err != nil {
		return "", err
	}

	start := series[0].Close
	end := series.LastClose()
	trend := "downtrend"
	if end.Cmp(start) > 0 {
		trend = "uptrend"
	}
	changePct := decimal.Zero
	if !start.IsZero() {
		changePct = end.Div(start).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return fmt.Sprintf("Price trend (%dd): %s, change: %s%% (from %s to %s)",
		days, trend, changePct, start.Round(2), end.Round(2)), nil
}

func (g *Generator) fundamentals(ctx context.Context, symbol string) (string, error) {
	profile, err := g.market.Profile(ctx, symbol)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Company: %s\nIndustry: %s\nMarket Cap: %s\nP/E Ratio: %s\nCurrent Price: %s",
		profile.CompanyName, profile.Industry, profile.MktCap, profile.PE, profile.Price), nil
}

func (g *Generator) headlines(ctx context.Context, symbol string, limit int) (string, error) {
	items, err := g.market.News(ctx, symbol, limit)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "Recent news:\n- None returned", nil
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("- %s (%s) %s", item.Title, item.Site, item.PublishedDate)))
	}
	return "Recent news:\n" + strings.Join(lines, "\n"), nil
}

package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"finbot/internal/strategy"
)

const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Client talks to the Financial Modeling Prep REST API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// DailyCloses fetches up to days trading days of daily history and returns
// the closes as a validated series, oldest first. An empty history is an
// error: no signal may be computed without tradable data.
func (c *Client) DailyCloses(ctx context.Context, symbol string, days int) (strategy.Series, error) {
	params := url.Values{}
	params.Set("timeseries", strconv.Itoa(days))

	var payload historicalResponse
	if err := c.get(ctx, "/historical-price-full/"+symbol, params, &payload); err != nil {
		return nil, fmt.Errorf("fetch daily closes for %s: %w", symbol, err)
	}
	if len(payload.Historical) == 0 {
		return nil, fmt.Errorf("no price history for %s", symbol)
	}

	series := make(strategy.Series, 0, len(payload.Historical))
	for _, bar := range payload.Historical {
		date, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			return nil, fmt.Errorf("parse bar date %q: %w", bar.Date, err)
		}
		series = append(series, strategy.PricePoint{Date: date, Close: bar.Close})
	}

	// FMP returns most-recent-first.
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	if err := series.Validate(); err != nil {
		return nil, err
	}

	slog.Info("daily closes fetched", "symbol", symbol, "bars", len(series), "last_close", series.LastClose())
	return series, nil
}

// Quote returns the current quote for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	var quotes []Quote
	if err := c.get(ctx, "/quote/"+symbol, url.Values{}, &quotes); err != nil {
		return Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	if len(quotes) == 0 {
		return Quote{}, fmt.Errorf("no quote for %s", symbol)
	}
	return quotes[0], nil
}

// Profile returns company fundamentals for a symbol.
func (c *Client) Profile(ctx context.Context, symbol string) (Profile, error) {
	var profiles []Profile
	if err := c.get(ctx, "/profile/"+symbol, url.Values{}, &profiles); err != nil {
		return Profile{}, fmt.Errorf("fetch profile for %s: %w", symbol, err)
	}
	if len(profiles) == 0 {
		return Profile{}, fmt.Errorf("no profile for %s", symbol)
	}
	return profiles[0], nil
}

// News returns up to limit recent news items for a symbol. An empty result
// is not an error; headlines are advisory context only.
func (c *Client) News(ctx context.Context, symbol string, limit int) ([]NewsItem, error) {
	params := url.Values{}
	params.Set("tickers", symbol)
	params.Set("limit", strconv.Itoa(limit))

	var items []NewsItem
	if err := c.get(ctx, "/stock_news", params, &items); err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fmp error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

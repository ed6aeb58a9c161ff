package insights

import (
	"context"
	"encoding/json"
	"fmt"

	"finbot/internal/llm"
)

// quoteTool lets the model pull the live quote while writing its analysis.
type quoteTool struct {
	market MarketData
}

func (t quoteTool) Name() string {
	return "get_quote"
}

func (t quoteTool) Description() string {
	return "Fetch the current price quote for a stock symbol"
}

func (t quoteTool) Parameters() *llm.Schema {
	return &llm.Schema{
		Type: llm.SchemaTypeObject,
		Properties: map[string]*llm.Schema{
			"symbol": {Type: llm.SchemaTypeString, Description: "stock ticker symbol, e.g. AAPL"},
		},
		Required: []string{"symbol"},
	}
}

func (t quoteTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("unmarshal arguments: %w", err)
	}
	return t.market.Quote(ctx, in.Symbol)
}

// newsTool lets the model fetch extra headlines beyond the prompt context.
type newsTool struct {
	market MarketData
}

func (t newsTool) Name() string {
	return "get_news"
}

func (t newsTool) Description() string {
	return "Fetch recent news headlines for a stock symbol"
}

func (t newsTool) Parameters() *llm.Schema {
	return &llm.Schema{
		Type: llm.SchemaTypeObject,
		Properties: map[string]*llm.Schema{
			"symbol": {Type: llm.SchemaTypeString, Description: "stock ticker symbol, e.g. AAPL"},
			"limit":  {Type: llm.SchemaTypeInteger, Description: "max number of headlines"},
		},
		Required: []string{"symbol"},
	}
}

func (t newsTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Symbol string `json:"symbol"`
		Limit  int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("unmarshal arguments: %w", err)
	}
	if in.Limit <= 0 {
		in.Limit = 3
	}
	return t.market.News(ctx, in.Symbol, in.Limit)
}

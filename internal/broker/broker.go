package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
)

type OrderRequest struct {
	Symbol        string
	Qty           int
	Side          alpaca.Side
	Type          alpaca.OrderType
	TimeInForce   alpaca.TimeInForce
	ClientOrderID string
}

type OrderRef struct {
	ID            string
	ClientOrderID string
	Status        string
}

type Position struct {
	Symbol   string
	Qty      int
	AvgEntry decimal.Decimal
}

type Account struct {
	Equity      decimal.Decimal
	Cash        decimal.Decimal
	BuyingPower decimal.Decimal
}

// Client wraps the Alpaca trading API. All calls are synchronous, fallible
// remote calls; the paper environment is selected by base URL.
type Client struct {
	client *alpaca.Client
}

func New(apiKey, apiSecret, baseURL string) *Client {
	opts := alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	}
	return &Client{client: alpaca.NewClient(opts)}
}

func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (OrderRef, error) {
	qty := decimal.NewFromInt(int64(req.Qty))
	orderReq := alpaca.PlaceOrderRequest{
		Symbol:        req.Symbol,
		Qty:           &qty,
		Side:          req.Side,
		Type:          req.Type,
		TimeInForce:   req.TimeInForce,
		ClientOrderID: req.ClientOrderID,
	}

	order, err := c.client.PlaceOrder(orderReq)
	if err != nil {
		slog.Error("place order failed", "side", req.Side, "symbol", req.Symbol, "qty", req.Qty, "error", err)
		return OrderRef{}, fmt.Errorf("place %s order for %s: %w", req.Side, req.Symbol, err)
	}

	slog.Info("place order success", "order_id", order.ID, "side", req.Side, "symbol", req.Symbol, "qty", req.Qty, "status", order.Status)
	return OrderRef{
		ID:            order.ID,
		ClientOrderID: order.ClientOrderID,
		Status:        string(order.Status),
	}, nil
}

func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]OrderRef, error) {
	req := alpaca.GetOrdersRequest{
		Status:  "open",
		Symbols: []string{symbol},
	}
	orders, err := c.client.GetOrders(req)
	if err != nil {
		slog.Error("fetch open orders failed", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("fetch open orders for %s: %w", symbol, err)
	}
	slog.Info("open orders fetched", "symbol", symbol, "count", len(orders))
	refs := make([]OrderRef, 0, len(orders))
	for _, order := range orders {
		refs = append(refs, OrderRef{
			ID:            order.ID,
			ClientOrderID: order.ClientOrderID,
			Status:        string(order.Status),
		})
	}
	return refs, nil
}

// Position reads the held quantity for a symbol. A 404 from the brokerage is
// a confirmed flat position and returns Qty 0 with no error; any other
// failure means the position is unknown and the error propagates. A trading
// decision must never run on a guessed position.
func (c *Client) Position(ctx context.Context, symbol string) (Position, error) {
	pos, err := c.client.GetPosition(symbol)
	if err != nil {
		var apiErr *alpaca.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			slog.Info("no open position", "symbol", symbol)
			return Position{Symbol: symbol}, nil
		}
		slog.Error("fetch position failed", "symbol", symbol, "error", err)
		return Position{}, fmt.Errorf("fetch position for %s: %w", symbol, err)
	}
	qty := int(pos.Qty.IntPart())

	slog.Info("position fetched", "symbol", symbol, "qty", qty, "avg_entry", pos.AvgEntryPrice)
	return Position{
		Symbol:   pos.Symbol,
		Qty:      qty,
		AvgEntry: pos.AvgEntryPrice,
	}, nil
}

func (c *Client) Account(ctx context.Context) (Account, error) {
	acct, err := c.client.GetAccount()
	if err != nil {
		slog.Error("fetch account failed", "error", err)
		return Account{}, fmt.Errorf("fetch account: %w", err)
	}

	slog.Info("account fetched", "equity", acct.Equity, "cash", acct.Cash, "buying_power", acct.BuyingPower)
	return Account{
		Equity:      acct.Equity,
		Cash:        acct.Cash,
		BuyingPower: acct.BuyingPower,
	}, nil
}

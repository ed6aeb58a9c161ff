package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finbot/internal/broker"
	"finbot/internal/config"
	"finbot/internal/risk"
	"finbot/internal/strategy"

	"github.com/shopspring/decimal"
)

type fakePrices struct {
	series strategy.Series
	err    error
}

func (f fakePrices) DailyCloses(ctx context.Context, symbol string, days int) (strategy.Series, error) {
	return f.series, f.err
}

type fakeBroker struct {
	position    broker.Position
	positionErr error
	openOrders  []broker.OrderRef
	placed      []broker.OrderRequest
	placeErr    error
}

func (f *fakeBroker) Position(ctx context.Context, symbol string) (broker.Position, error) {
	return f.position, f.positionErr
}

func (f *fakeBroker) OpenOrders(ctx context.Context, symbol string) ([]broker.OrderRef, error) {
	return f.openOrders, nil
}

func (f *fakeBroker) PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderRef, error) {
	if f.placeErr != nil {
		return broker.OrderRef{}, f.placeErr
	}
	f.placed = append(f.placed, req)
	return broker.OrderRef{ID: "order-1", ClientOrderID: req.ClientOrderID, Status: "accepted"}, nil
}

func (f *fakeBroker) Account(ctx context.Context) (broker.Account, error) {
	return broker.Account{
		Equity:      decimal.NewFromInt(100000),
		Cash:        decimal.NewFromInt(50000),
		BuyingPower: decimal.NewFromInt(200000),
	}, nil
}

func testConfig() config.Config {
	return config.Config{
		Symbol:       "AAPL",
		LookbackDays: 10,
		FastWindow:   2,
		SlowWindow:   3,
		OrderQty:     1,
		MaxQty:       1,
		MaxNotional:  10000,
	}
}

func testSeries(t *testing.T, closes ...float64) strategy.Series {
	t.Helper()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(strategy.Series, 0, len(closes))
	for i, close := range closes {
		series = append(series, strategy.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: decimal.NewFromFloat(close),
		})
	}
	return series
}

func newTestRunner(t *testing.T, cfg config.Config, prices PriceProvider, fb *fakeBroker) *Runner {
	t.Helper()
	decisions, err := NewDecisionLogger(filepath.Join(t.TempDir(), "decisions.ndjson"), "test-run")
	if err != nil {
		t.Fatalf("decision logger: %v", err)
	}
	t.Cleanup(func() { _ = decisions.Close() })
	return NewRunner(cfg, prices, fb, risk.Gate{}, decisions)
}

func TestRunSubmitsSingleBuyOnBullishCross(t *testing.T) {
	// sma2 crosses above sma3 on the final close.
	prices := fakePrices{series: testSeries(t, 100, 99, 98, 103)}
	fb := &fakeBroker{position: broker.Position{Symbol: "AAPL"}}

	runner := newTestRunner(t, testConfig(), prices, fb)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(fb.placed) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(fb.placed))
	}
	order := fb.placed[0]
	if string(order.Side) != "buy" || order.Qty != 1 {
		t.Fatalf("expected buy qty=1, got %s qty=%d", order.Side, order.Qty)
	}
	if order.ClientOrderID == "" {
		t.Fatalf("expected a client order id")
	}
}

func TestRunSellFlattensFullPosition(t *testing.T) {
	// sma2 crosses below sma3 on the final close.
	prices := fakePrices{series: testSeries(t, 100, 101, 99, 98)}
	fb := &fakeBroker{position: broker.Position{Symbol: "AAPL", Qty: 4}}

	cfg := testConfig()
	cfg.MaxQty = 4
	runner := newTestRunner(t, cfg, prices, fb)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(fb.placed) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(fb.placed))
	}
	order := fb.placed[0]
	if string(order.Side) != "sell" || order.Qty != 4 {
		t.Fatalf("expected sell of full position qty=4, got %s qty=%d", order.Side, order.Qty)
	}
}

func TestRunHoldsWhenAlreadyPositioned(t *testing.T) {
	prices := fakePrices{series: testSeries(t, 100, 99, 98, 103)}
	fb := &fakeBroker{position: broker.Position{Symbol: "AAPL", Qty: 1}}

	runner := newTestRunner(t, testConfig(), prices, fb)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(fb.placed) != 0 {
		t.Fatalf("expected no order while already long, got %d", len(fb.placed))
	}
}

func TestRunBlocksWhileOrderOutstanding(t *testing.T) {
	prices := fakePrices{series: testSeries(t, 100, 99, 98, 103)}
	fb := &fakeBroker{
		position:   broker.Position{Symbol: "AAPL"},
		openOrders: []broker.OrderRef{{ID: "pending-1", Status: "new"}},
	}

	runner := newTestRunner(t, testConfig(), prices, fb)
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(fb.placed) != 0 {
		t.Fatalf("expected no order while one is outstanding, got %d", len(fb.placed))
	}
}

func TestRunAbortsWhenPositionUnavailable(t *testing.T) {
	prices := fakePrices{series: testSeries(t, 100, 99, 98, 103)}
	fb := &fakeBroker{positionErr: errors.New("broker unreachable")}

	runner := newTestRunner(t, testConfig(), prices, fb)
	if err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected run to abort when position state is unknown")
	}
	if len(fb.placed) != 0 {
		t.Fatalf("expected no order on aborted run, got %d", len(fb.placed))
	}
}

func TestRunAbortsOnPriceFetchFailure(t *testing.T) {
	prices := fakePrices{err: errors.New("no price history")}
	fb := &fakeBroker{}

	runner := newTestRunner(t, testConfig(), prices, fb)
	if err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected run to abort on price fetch failure")
	}
}

func TestRunPropagatesOrderSubmissionFailure(t *testing.T) {
	prices := fakePrices{series: testSeries(t, 100, 99, 98, 103)}
	fb := &fakeBroker{
		position: broker.Position{Symbol: "AAPL"},
		placeErr: errors.New("rejected"),
	}

	runner := newTestRunner(t, testConfig(), prices, fb)
	if err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected order failure to be fatal for the run")
	}
}

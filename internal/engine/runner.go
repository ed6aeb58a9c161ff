package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"finbot/internal/broker"
	"finbot/internal/config"
	"finbot/internal/risk"
	"finbot/internal/strategy"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
)

// PriceProvider supplies the daily close series a run decides on.
type PriceProvider interface {
	DailyCloses(ctx context.Context, symbol string, days int) (strategy.Series, error)
}

// Broker is the slice of brokerage behavior a run consumes.
type Broker interface {
	Position(ctx context.Context, symbol string) (broker.Position, error)
	OpenOrders(ctx context.Context, symbol string) ([]broker.OrderRef, error)
	PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderRef, error)
	Account(ctx context.Context) (broker.Account, error)
}

// Runner executes one complete trading run: fetch prices, compute the
// signal, read broker state, reconcile, and submit at most one order.
type Runner struct {
	cfg         config.Config
	prices      PriceProvider
	broker      Broker
	gate        risk.Gate
	decisions   *DecisionLogger
	runID       string
	orderSeqNum uint64
}

func NewRunner(cfg config.Config, prices PriceProvider, brokerClient Broker, gate risk.Gate, decisions *DecisionLogger) *Runner {
	return &Runner{
		cfg:       cfg,
		prices:    prices,
		broker:    brokerClient,
		gate:      gate,
		decisions: decisions,
		runID:     decisions.RunID(),
	}
}

// Run is one linear, synchronous pass. Every failure except a blocked order
// aborts the run and propagates to the caller; trading on incomplete or
// guessed state is never acceptable.
func (r *Runner) Run(ctx context.Context) error {
	series, err := r.prices.DailyCloses(ctx, r.cfg.Symbol, r.cfg.LookbackDays)
	if err != nil {
		return err
	}
	lastClose := series.LastClose()

	cross := strategy.Crossover{Fast: r.cfg.FastWindow, Slow: r.cfg.SlowWindow}
	sig, err := cross.Compute(series)
	if err != nil {
		return err
	}
	slog.Info("signal computed", "symbol", r.cfg.Symbol, "signal", sig, "close", lastClose, "fast", r.cfg.FastWindow, "slow", r.cfg.SlowWindow)

	position, err := r.broker.Position(ctx, r.cfg.Symbol)
	if err != nil {
		return err
	}

	openOrders, err := r.broker.OpenOrders(ctx, r.cfg.Symbol)
	if err != nil {
		return err
	}

	intent := Reconcile(sig, position.Qty, r.cfg.OrderQty)

	decision := Decision{
		RunID:       r.runID,
		Timestamp:   time.Now().UTC(),
		Symbol:      r.cfg.Symbol,
		Close:       lastClose,
		Signal:      sig,
		PositionQty: position.Qty,
		Intent:      intent.Action,
		IntentQty:   intent.Qty,
		Reason:      intent.Reason,
	}

	riskCtx := risk.RiskContext{
		Price:          lastClose,
		PositionQty:    position.Qty,
		OpenOrderCount: len(openOrders),
		MaxQty:         r.cfg.MaxQty,
		MaxNotional:    decimal.NewFromFloat(r.cfg.MaxNotional),
		KillSwitch:     r.cfg.KillSwitch,
	}

	if _, err := r.gate.Evaluate(intent, riskCtx); err != nil {
		decision.Result = "rejected"
		decision.RejectReason = err.Error()
		r.decisions.Append(decision)
		slog.Warn("order blocked", "intent", intent.Action, "reason", err.Error())
	} else if intent.Action == strategy.Hold {
		decision.Result = "hold"
		r.decisions.Append(decision)
		slog.Info("no order today", "reason", intent.Reason)
	} else {
		orderRef, err := r.broker.PlaceOrder(ctx, r.buildOrder(intent))
		if err != nil {
			decision.Result = "order_failed"
			decision.RejectReason = err.Error()
			r.decisions.Append(decision)
			return fmt.Errorf("submit %s order: %w", intent.Action, err)
		}
		decision.Result = "order_submitted"
		decision.OrderID = orderRef.ID
		decision.ClientOrderID = orderRef.ClientOrderID
		r.decisions.Append(decision)
		slog.Info("order submitted", "symbol", r.cfg.Symbol, "side", intent.Action, "qty", intent.Qty, "order_id", orderRef.ID)
	}

	account, err := r.broker.Account(ctx)
	if err != nil {
		return err
	}
	slog.Info("account summary", "equity", account.Equity, "cash", account.Cash, "buying_power", account.BuyingPower)
	return nil
}

// buildOrder turns the approved intent into a market DAY order. Submission
// is fire-and-forget; the run never polls for a fill.
func (r *Runner) buildOrder(intent strategy.TradeIntent) broker.OrderRequest {
	side := alpaca.Buy
	if intent.Action == strategy.Sell {
		side = alpaca.Sell
	}
	return broker.OrderRequest{
		Symbol:        r.cfg.Symbol,
		Qty:           intent.Qty,
		Side:          side,
		Type:          alpaca.Market,
		TimeInForce:   alpaca.Day,
		ClientOrderID: r.nextClientOrderID(),
	}
}

func (r *Runner) nextClientOrderID() string {
	seq := atomic.AddUint64(&r.orderSeqNum, 1)
	return fmt.Sprintf("%s-%d", r.runID, seq)
}

package risk

import (
	"testing"

	"finbot/internal/strategy"

	"github.com/shopspring/decimal"
)

func baseContext() RiskContext {
	return RiskContext{
		Price:       decimal.NewFromInt(100),
		MaxQty:      5,
		MaxNotional: decimal.NewFromInt(1000),
	}
}

func TestGateApprovesValidBuy(t *testing.T) {
	intent := strategy.TradeIntent{Action: strategy.Buy, Qty: 1, Reason: "bullish_crossover"}
	approved, err := Gate{}.Evaluate(intent, baseContext())
	if err != nil {
		t.Fatalf("expected approval, got %v", err)
	}
	if approved.Intent.Qty != 1 {
		t.Fatalf("expected qty 1, got %d", approved.Intent.Qty)
	}
}

func TestGatePassesHoldThrough(t *testing.T) {
	intent := strategy.TradeIntent{Action: strategy.Hold, Reason: "no_crossover"}
	ctx := baseContext()
	ctx.KillSwitch = true

	// Hold never reaches the checks: there is nothing to block.
	if _, err := (Gate{}).Evaluate(intent, ctx); err != nil {
		t.Fatalf("expected hold to pass, got %v", err)
	}
}

func TestGateRejectsWhenKillSwitchEnabled(t *testing.T) {
	intent := strategy.TradeIntent{Action: strategy.Buy, Qty: 1}
	ctx := baseContext()
	ctx.KillSwitch = true

	if _, err := (Gate{}).Evaluate(intent, ctx); err == nil {
		t.Fatalf("expected kill switch rejection")
	}
}

func TestGateRejectsWhileOrderOutstanding(t *testing.T) {
	intent := strategy.TradeIntent{Action: strategy.Sell, Qty: 2}
	ctx := baseContext()
	ctx.PositionQty = 2
	ctx.OpenOrderCount = 1

	if _, err := (Gate{}).Evaluate(intent, ctx); err == nil {
		t.Fatalf("expected open order rejection")
	}
}

func TestGateRejectsOversizedPosition(t *testing.T) {
	intent := strategy.TradeIntent{Action: strategy.Buy, Qty: 4}
	ctx := baseContext()
	ctx.PositionQty = 3

	if _, err := (Gate{}).Evaluate(intent, ctx); err == nil {
		t.Fatalf("expected max position rejection")
	}
}

func TestGateRejectsExcessNotional(t *testing.T) {
	intent := strategy.TradeIntent{Action: strategy.Buy, Qty: 5}
	ctx := baseContext()
	ctx.Price = decimal.NewFromInt(300)

	if _, err := (Gate{}).Evaluate(intent, ctx); err == nil {
		t.Fatalf("expected max notional rejection")
	}
}

func TestGateRejectsSellWithoutPosition(t *testing.T) {
	intent := strategy.TradeIntent{Action: strategy.Sell, Qty: 1}

	if _, err := (Gate{}).Evaluate(intent, baseContext()); err == nil {
		t.Fatalf("expected sell without position rejection")
	}
}

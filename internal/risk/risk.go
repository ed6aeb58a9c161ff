package risk

import (
	"fmt"
	"log/slog"

	"finbot/internal/strategy"

	"github.com/shopspring/decimal"
)

type RiskContext struct {
	Price          decimal.Decimal
	PositionQty    int
	OpenOrderCount int
	MaxQty         int
	MaxNotional    decimal.Decimal
	KillSwitch     bool
}

type ApprovedIntent struct {
	Intent strategy.TradeIntent
	Reason string
}

type Gate struct{}

// Evaluate approves or rejects the run's single intent. A rejection blocks
// the order but is not a run failure; the caller logs it and carries on.
func (g Gate) Evaluate(intent strategy.TradeIntent, ctx RiskContext) (ApprovedIntent, error) {
	if intent.Action == strategy.Hold {
		return ApprovedIntent{Intent: intent, Reason: "hold"}, nil
	}

	notional := ctx.Price.Mul(decimal.NewFromInt(int64(intent.Qty)))
	slog.Info("risk evaluation", "intent", intent.Action, "qty", intent.Qty, "position", ctx.PositionQty, "price", ctx.Price, "notional", notional)

	if ctx.KillSwitch {
		slog.Info("risk rejected", "reason", "kill_switch_enabled")
		return ApprovedIntent{}, fmt.Errorf("kill_switch_enabled")
	}
	if ctx.OpenOrderCount > 0 {
		slog.Info("risk rejected", "reason", "open_order_exists", "count", ctx.OpenOrderCount)
		return ApprovedIntent{}, fmt.Errorf("open_order_exists")
	}
	if intent.Qty <= 0 {
		slog.Info("risk rejected", "reason", "invalid_quantity", "qty", intent.Qty)
		return ApprovedIntent{}, fmt.Errorf("invalid_quantity")
	}
	if intent.Action == strategy.Buy && intent.Qty+ctx.PositionQty > ctx.MaxQty {
		slog.Info("risk rejected", "reason", "max_position_exceeded", "new_qty", intent.Qty+ctx.PositionQty, "max", ctx.MaxQty)
		return ApprovedIntent{}, fmt.Errorf("max_position_exceeded")
	}
	if intent.Action == strategy.Sell && ctx.PositionQty <= 0 {
		slog.Info("risk rejected", "reason", "no_position_to_sell")
		return ApprovedIntent{}, fmt.Errorf("no_position_to_sell")
	}
	if notional.Cmp(ctx.MaxNotional) > 0 {
		slog.Info("risk rejected", "reason", "max_notional_exceeded", "notional", notional, "max", ctx.MaxNotional)
		return ApprovedIntent{}, fmt.Errorf("max_notional_exceeded")
	}

	slog.Info("risk approved", "intent", intent.Action, "qty", intent.Qty, "reason", intent.Reason)
	return ApprovedIntent{Intent: intent, Reason: "approved"}, nil
}

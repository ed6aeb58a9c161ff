package engine

import "finbot/internal/strategy"

// Reconcile compares the desired exposure implied by the signal with the
// quantity actually held and returns the minimal action that aligns them.
// Position state is read fresh immediately before each call; nothing is
// cached between runs.
//
//	BUY  + flat -> buy unitQty
//	BUY  + long -> hold (already positioned)
//	SELL + long -> sell the full held quantity
//	SELL + flat -> hold (nothing to sell)
//	HOLD + any  -> hold
//
// At most one order can follow from a single call.
func Reconcile(sig strategy.Signal, positionQty, unitQty int) strategy.TradeIntent {
	switch {
	case sig == strategy.Buy && positionQty == 0:
		return strategy.TradeIntent{Action: strategy.Buy, Qty: unitQty, Reason: "bullish_crossover"}
	case sig == strategy.Buy:
		return strategy.TradeIntent{Action: strategy.Hold, Reason: "already_long"}
	case sig == strategy.Sell && positionQty > 0:
		return strategy.TradeIntent{Action: strategy.Sell, Qty: positionQty, Reason: "bearish_crossover_flatten"}
	case sig == strategy.Sell:
		return strategy.TradeIntent{Action: strategy.Hold, Reason: "nothing_to_sell"}
	default:
		return strategy.TradeIntent{Action: strategy.Hold, Reason: "no_crossover"}
	}
}

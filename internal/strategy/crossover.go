package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const smaPrecision = 12

// Crossover derives a signal from the most recent fast/slow SMA cross.
type Crossover struct {
	Fast int
	Slow int
}

// Compute evaluates the crossover rule on the latest two rows where both
// moving averages are defined. Ties are inclusive on the prior row and
// strict on the current row, so a cross registers on exactly one day.
// Stateless: the signal is recomputed from scratch every run.
func (c Crossover) Compute(series Series) (Signal, error) {
	if c.Fast <= 0 || c.Slow <= 0 {
		return Hold, fmt.Errorf("sma windows must be positive, got fast=%d slow=%d", c.Fast, c.Slow)
	}
	if c.Fast >= c.Slow {
		return Hold, fmt.Errorf("fast window %d must be shorter than slow window %d", c.Fast, c.Slow)
	}
	if err := series.Validate(); err != nil {
		return Hold, err
	}

	fast := smaSeries(series, c.Fast)
	slow := smaSeries(series, c.Slow)

	// The slow window is longer, so every row with a defined slow SMA also
	// has a defined fast SMA. Fewer than two such rows means no crossover
	// can be evaluated yet.
	if len(slow) < 2 {
		return Hold, nil
	}
	offset := len(fast) - len(slow)

	prevFast := fast[offset+len(slow)-2]
	lastFast := fast[offset+len(slow)-1]
	prevSlow := slow[len(slow)-2]
	lastSlow := slow[len(slow)-1]

	switch {
	case prevFast.Cmp(prevSlow) <= 0 && lastFast.Cmp(lastSlow) > 0:
		return Buy, nil
	case prevFast.Cmp(prevSlow) >= 0 && lastFast.Cmp(lastSlow) < 0:
		return Sell, nil
	default:
		return Hold, nil
	}
}

// smaSeries returns the trailing mean for every index with at least
// window closes of history, one value per defined index, oldest first.
func smaSeries(series Series, window int) []decimal.Decimal {
	if len(series) < window {
		return nil
	}
	divisor := decimal.NewFromInt(int64(window))
	out := make([]decimal.Decimal, 0, len(series)-window+1)
	sum := decimal.Zero
	for i, point := range series {
		sum = sum.Add(point.Close)
		if i >= window {
			sum = sum.Sub(series[i-window].Close)
		}
		if i >= window-1 {
			out = append(out, sum.DivRound(divisor, smaPrecision))
		}
	}
	return out
}
